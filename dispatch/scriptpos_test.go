package dispatch

import (
	"testing"

	"github.com/az-ai-labs/pagerec/wordres"
)

func TestFixScriptPositionTagsSuperscript(t *testing.T) {
	t.Parallel()
	w := wordres.New([]wordres.Blob{{ID: 0}})
	w.Baseline = 0
	w.XHeight = 10
	w.BoxWord = []wordres.Box{{X0: 0, X1: 4, Y0: -14, Y1: -10}} // well above baseline

	if !FixScriptPosition(w) {
		t.Fatal("expected a tag change")
	}
	if w.ScriptPos[0] != wordres.Superscript {
		t.Fatalf("got %v, want Superscript", w.ScriptPos[0])
	}
}

func TestFixScriptPositionTagsNormalUnchanged(t *testing.T) {
	t.Parallel()
	w := wordres.New([]wordres.Blob{{ID: 0}})
	w.Baseline = 0
	w.XHeight = 10
	w.BoxWord = []wordres.Box{{X0: 0, X1: 4, Y0: -10, Y1: 0}}
	w.ScriptPos = []wordres.ScriptPos{wordres.Normal}

	if FixScriptPosition(w) {
		t.Fatal("expected no change when already tagged Normal")
	}
}

func TestRunPass2OrdersScriptPositionBeforeRefit(t *testing.T) {
	t.Parallel()
	w := makeRefitWord()
	// Mark a plainly off-baseline glyph so FixScriptPosition reports a
	// change even though the misfit-driven refit also fires.
	w.BoxWord[0] = wordres.Box{X0: 0, X1: 10, Y0: -30, Y1: -25}

	changed := RunPass2(w, &refitLegacy{})
	if !changed {
		t.Fatal("expected pass 2 to report a change")
	}
	// ScriptPos must have been (re)computed — RunPass2 runs
	// FixScriptPosition unconditionally before RefitXHeight.
	if len(w.ScriptPos) != 1 {
		t.Fatal("expected ScriptPos to be populated")
	}
}
