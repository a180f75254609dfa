package dispatch

import (
	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/wordres"
)

// RunPass2 applies pass 2's per-word re-examination steps in the order
// pinned by SPEC_FULL.md's Open Question Decision #2: script-position
// correction runs first, since RefitXHeight's misfit measurement assumes
// glyphs are at normal vertical position, then the x-height refit runs
// against the corrected geometry. Returns true if either step changed
// the word.
func RunPass2(word *wordres.WordResult, legacy classify.LegacyClassifier) bool {
	scriptChanged := FixScriptPosition(word)
	refit := RefitXHeight(word, legacy)
	return scriptChanged || refit
}
