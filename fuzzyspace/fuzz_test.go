package fuzzyspace

import (
	"strings"
	"testing"

	"github.com/az-ai-labs/pagerec/wordres"
)

// buildRun turns a fuzzed string into a run of WordResults: one per
// whitespace-separated token (capped to keep runs small), laid out
// left-to-right with a 1-pixel gap, alternating permuter/accepted so the
// fuzzer reaches both the dictionary-class and non-dictionary-class
// paths through eval_word_spacing.
func buildRun(set *wordres.Unicharset, text string) []*wordres.WordResult {
	fields := strings.Fields(text)
	if len(fields) > 16 {
		fields = fields[:16]
	}
	run := make([]*wordres.WordResult, len(fields))
	x := 0.0
	for i, tok := range fields {
		if len(tok) > 32 {
			tok = tok[:32]
		}
		permuter := wordres.NoPerm
		if i%2 == 0 {
			permuter = wordres.SystemDawg
		}
		w := wordWithChoice(set, tok, x, x+float64(len(tok))+1, permuter, i%3 == 0)
		run[i] = w
		x += float64(len(tok)) + 2
	}
	return run
}

// FuzzEvalWordSpacing exercises spec §4.4's eval_word_spacing over
// arbitrary token text/mode/punctuation-bonus combinations: it must
// never panic, and a run it judges all-done must score exactly
// PerfectWerds while any other run must score strictly less.
func FuzzEvalWordSpacing(f *testing.F) {
	f.Add("the cat sat", 1, false)
	f.Add("", 0, false)
	f.Add("561 l63", 1, true)
	f.Add("!!,, ..;;", 3, true)
	f.Add("\xff\xfe word", 2, false)

	f.Fuzz(func(t *testing.T, text string, mode int, punctBonus bool) {
		set := wordres.NewUnicharset()
		run := buildRun(set, text)

		score := EvalWordSpacing(run, set, mode, punctBonus, DefaultPunctBonusSet)
		if score < 0 || score > PerfectWerds {
			t.Fatalf("score %d out of [0, %d] range for run of %d words", score, PerfectWerds, len(run))
		}

		allDone := true
		for _, w := range run {
			if !FixspaceThinksWordDone(w, mode) {
				allDone = false
				break
			}
		}
		if allDone && score != PerfectWerds {
			t.Fatalf("every word done but score = %d, want PerfectWerds", score)
		}
		if !allDone && score == PerfectWerds {
			t.Fatalf("not every word done but score = PerfectWerds")
		}
	})
}
