package dispatch

import "github.com/az-ai-labs/pagerec/wordres"

// superscriptFraction / subscriptFraction bound how far a character's
// vertical midpoint must sit from the baseline, relative to x-height,
// before it is tagged sub/superscript.
const (
	superscriptFraction = 0.6
	subscriptFraction   = 0.3
)

// FixScriptPosition recomputes each character's ScriptPos from its
// BoxWord geometry relative to the word's baseline and x-height,
// reporting whether any tag changed. Spec §4.2.1 requires this run
// before the x-height refit within pass 2 (see Open Question Decision
// #2 in SPEC_FULL.md), since refitting assumes normal-position glyphs.
func FixScriptPosition(word *wordres.WordResult) bool {
	if word.XHeight <= 0 || len(word.BoxWord) == 0 {
		return false
	}
	if len(word.ScriptPos) != len(word.BoxWord) {
		word.ScriptPos = make([]wordres.ScriptPos, len(word.BoxWord))
	}
	changed := false
	for i, box := range word.BoxWord {
		mid := (box.Y0 + box.Y1) / 2
		offset := word.Baseline - mid // positive: glyph center above baseline
		var pos wordres.ScriptPos
		switch {
		case offset > superscriptFraction*word.XHeight:
			pos = wordres.Superscript
		case offset < -subscriptFraction*word.XHeight:
			pos = wordres.Subscript
		default:
			pos = wordres.Normal
		}
		if word.ScriptPos[i] != pos {
			word.ScriptPos[i] = pos
			changed = true
		}
	}
	return changed
}
