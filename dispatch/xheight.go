package dispatch

import (
	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/wordres"
)

// MinRefitXHtFraction bounds how far RefitXHeight will shrink a word's
// x-height when searching for a better fit (spec §4.2.1).
const MinRefitXHtFraction = 0.5

// xHeightSteps are the shrink factors RefitXHeight tries, largest first,
// down to MinRefitXHtFraction.
var xHeightSteps = []float64{0.95, 0.9, 0.85, 0.8, 0.75, 0.7, 0.65, 0.6, 0.55, 0.5}

// misfitTolerance is how far a character's height-to-x-height ratio may
// drift from 1.0 before it counts as a misfit.
const misfitTolerance = 0.3

// countMisfits counts characters whose box height, expressed as a
// fraction of xHeight, falls far from 1.0 — i.e. glyphs that don't look
// like they belong to a word with this x-height. This approximates the
// per-language glyph-height envelope tables spec §4.2.1 refers to, which
// are external per-language data not otherwise specified.
func countMisfits(word *wordres.WordResult, xHeight float64) int {
	if xHeight <= 0 || len(word.BoxWord) == 0 {
		return 0
	}
	misfits := 0
	for _, b := range word.BoxWord {
		ratio := b.Height() / xHeight
		if ratio < 1-misfitTolerance || ratio > 1+misfitTolerance {
			misfits++
		}
	}
	return misfits
}

// RefitXHeight implements spec §4.2.1: when a word's characters don't fit
// its nominal x-height envelope, try shrinking the x-height down to
// MinRefitXHtFraction of the original and reclassifying, accepting the
// new result only if the misfit count strictly drops and either
// certainty or rating improves. Returns true if the word was updated.
func RefitXHeight(word *wordres.WordResult, legacy classify.LegacyClassifier) bool {
	if legacy == nil || word.BestChoiceRes == nil || word.XHeight <= 0 {
		return false
	}
	before := countMisfits(word, word.XHeight)
	if before == 0 {
		return false
	}

	originalXHeight := word.XHeight
	originalChoice := word.BestChoiceRes
	originalBoxWord := word.BoxWord
	originalRejectMap := word.RejectMap

	bestMisfits := before
	var bestXHeight float64
	found := false
	for _, factor := range xHeightSteps {
		if factor < MinRefitXHtFraction {
			break
		}
		candidateXHeight := originalXHeight * factor
		word.XHeight = candidateXHeight
		m := countMisfits(word, candidateXHeight)
		if m < bestMisfits {
			bestMisfits, bestXHeight, found = m, candidateXHeight, true
		}
	}
	word.XHeight = originalXHeight
	if !found {
		return false
	}

	word.XHeight = bestXHeight
	newBest, _, _, _ := legacy.ClassifyWord(word)
	if newBest == nil {
		word.XHeight = originalXHeight
		return false
	}

	improved := newBest.Certainty() > originalChoice.Certainty() || newBest.Rating() < originalChoice.Rating()
	// bestMisfits was already measured against the word's existing
	// geometry at the candidate x-height; LegacyClassifier has no way to
	// hand back updated per-character boxes, so we trust that count
	// rather than recomputing against the post-classify BoxWord (which
	// SetBestChoice would otherwise reset to zero-value boxes).
	if bestMisfits < before && improved {
		word.SetBestChoice(newBest, originalBoxWord)
		word.ComputeDone()
		return true
	}

	// Revert: the shrink didn't pay off.
	word.XHeight = originalXHeight
	word.BestChoiceRes = originalChoice
	word.BoxWord = originalBoxWord
	word.RejectMap = originalRejectMap
	return false
}
