// Package dispatch implements Multi-language Dispatch (spec.md §4.2): it
// tries a word against a primary language and its configured
// sub-languages, biased toward whichever engine most recently succeeded,
// and keeps whichever resulting span of WordResults scores best. It
// depends on classify (the Classifier Adapter) and wordres; permuter
// dictionary-class checks go through wordres.Permuter.
package dispatch

import (
	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/wordres"
)

// Defaults recovered from tesseract's classify_max_rating_ratio /
// classify_max_certainty_margin, since spec.md names RATING_RATIO and
// CERTAINTY_MARGIN in its selection rule (§4.2) without giving values.
const (
	DefaultRatingRatio     = 1.5
	DefaultCertaintyMargin = 5.5
)

// Engine is one language's recognition path: its name, its classifier
// adapter, and the engine-dispatch mode to use.
type Engine struct {
	Name       string
	Classifier *classify.Classifier
	Mode       classify.Mode
}

// SpanStats summarizes a candidate span of WordResults for the selection
// rule in spec §4.2: total rating, minimum certainty, whether every
// permuter is dictionary-class ("valid"), and whether any word lacks a
// best_choice ("bad").
type SpanStats struct {
	Rating    float32
	Certainty float32
	Valid     bool
	Bad       bool
}

func statsOf(words []*wordres.WordResult) SpanStats {
	if len(words) == 0 {
		return SpanStats{Bad: true}
	}
	s := SpanStats{Valid: true}
	minCert := float32(0)
	first := true
	for _, w := range words {
		if w.BestChoiceRes == nil || w.TessFailed {
			s.Bad = true
			s.Valid = false
			continue
		}
		s.Rating += w.BestChoiceRes.Rating()
		c := w.BestChoiceRes.Certainty()
		if first || c < minCert {
			minCert = c
			first = false
		}
		if !w.BestChoiceRes.Permuter.IsDictionaryClass() {
			s.Valid = false
		}
	}
	s.Certainty = minCert
	return s
}

// PreferNew implements the selection rule of spec §4.2 verbatim:
//
//	New is chosen over current when:
//	  (not n_bad) AND (
//	     b_bad
//	     OR (n_certainty > b_certainty AND n_rating < b_rating)
//	     OR (not b_valid AND n_valid AND n_rating < b_rating * ratingRatio
//	         AND n_certainty > b_certainty - certaintyMargin))
//	otherwise the current best is kept when not b_bad.
func PreferNew(current, candidate SpanStats, ratingRatio, certaintyMargin float32) bool {
	if candidate.Bad {
		return false
	}
	if current.Bad {
		return true
	}
	if candidate.Certainty > current.Certainty && candidate.Rating < current.Rating {
		return true
	}
	if !current.Valid && candidate.Valid &&
		candidate.Rating < current.Rating*ratingRatio &&
		candidate.Certainty > current.Certainty-certaintyMargin {
		return true
	}
	return false
}

// Acceptable reports whether every word in the span is tess_accepted and
// not tess_failed (spec §4.2 "acceptable" words).
func Acceptable(words []*wordres.WordResult) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !w.TessAccepted || w.TessFailed {
			return false
		}
	}
	return true
}

// RetryWithLanguage runs one engine against inWord and merges its output
// into bestWords per the selection rule, returning the updated best span
// and (new_words_kept - old_words_dropped) as spec §4.2 specifies for
// retry_with_language's return value.
func RetryWithLanguage(
	eng *Engine, img classify.ImageProvider, inWord *wordres.WordResult,
	bestWords []*wordres.WordResult, ratingRatio, certaintyMargin float32,
) ([]*wordres.WordResult, int) {
	candidate := classify.Dispatch(eng.Classifier, eng.Mode, inWord.Clone(), img)
	if PreferNew(statsOf(bestWords), statsOf(candidate), ratingRatio, certaintyMargin) {
		return candidate, len(candidate) - len(bestWords)
	}
	return bestWords, 0
}

// Dispatcher tries a primary engine and configured sub-languages for
// each word, remembering which engine most recently produced an
// acceptable result (spec §4.2 "biased toward the most-recently-
// successful engine").
type Dispatcher struct {
	Primary         *Engine
	SubLanguages    []*Engine
	RatingRatio     float32
	CertaintyMargin float32

	mru int // -1 = Primary, else index into SubLanguages
}

// NewDispatcher returns a Dispatcher defaulting RatingRatio/CertaintyMargin
// and starting MRU at the primary engine.
func NewDispatcher(primary *Engine, subs []*Engine) *Dispatcher {
	return &Dispatcher{
		Primary:         primary,
		SubLanguages:    subs,
		RatingRatio:     DefaultRatingRatio,
		CertaintyMargin: DefaultCertaintyMargin,
		mru:             -1,
	}
}

func (d *Dispatcher) engineAt(idx int) *Engine {
	if idx < 0 {
		return d.Primary
	}
	return d.SubLanguages[idx]
}

// tryOrder returns engine indices (-1 for primary, 0..n-1 for subs) in
// the order spec §4.2 specifies: "primary MRU engine first ... try the
// main engine, then each sub-language", with duplicates skipped by the
// caller.
func (d *Dispatcher) tryOrder() []int {
	order := []int{d.mru, -1}
	for i := range d.SubLanguages {
		order = append(order, i)
	}
	return order
}

// ClassifyWordAndLanguage is the spec §4.2 dispatch entry point: it tries
// engines in MRU-biased order, keeping the best-scoring span, and stops
// early once an acceptable span is found. It mutates word_data's MRU
// bookkeeping but returns the winning span rather than mutating a page
// iterator directly (callers are expected to splice the result in, e.g.
// via pageres.Iterator.ReplaceCurrentWord, when the span's length != 1).
func (d *Dispatcher) ClassifyWordAndLanguage(word *wordres.WordResult, img classify.ImageProvider) []*wordres.WordResult {
	tried := make(map[int]bool)
	var best []*wordres.WordResult
	bestStats := SpanStats{Bad: true}
	chosen := d.mru

	for _, idx := range d.tryOrder() {
		if tried[idx] {
			continue
		}
		tried[idx] = true
		eng := d.engineAt(idx)
		if eng == nil || (eng.Classifier == nil) {
			continue
		}
		candidate := classify.Dispatch(eng.Classifier, eng.Mode, word.Clone(), img)
		stats := statsOf(candidate)
		if best == nil || PreferNew(bestStats, stats, d.RatingRatio, d.CertaintyMargin) {
			best, bestStats, chosen = candidate, stats, idx
		}
		if Acceptable(best) {
			break
		}
	}

	if best == nil {
		word.MarkFailed()
		return []*wordres.WordResult{word}
	}
	d.mru = chosen
	return best
}
