// Package bigram implements the Bigram Corrector (spec.md §4.5): after
// main recognition, adjacent same-language word pairs are validated
// against the dictionary as an ordered pair, and replaced with a better
// alternate-choice pairing when the dictionary prefers one. It depends
// on wordres and dict.
package bigram

import (
	"strings"

	"github.com/az-ai-labs/pagerec/dict"
	"github.com/az-ai-labs/pagerec/wordres"
)

// stripSuperscript returns the "main body" choice, dropping any
// characters tagged Superscript (spec §4.5 step 1). If w carries no
// per-character ScriptPos tags, the choice is returned unchanged.
func stripSuperscript(w *wordres.WordResult) *wordres.BestChoice {
	bc := w.BestChoiceRes
	if bc == nil || len(w.ScriptPos) != bc.Len() {
		return bc
	}
	out := &wordres.BestChoice{Permuter: bc.Permuter}
	for i, u := range bc.Unichars {
		if w.ScriptPos[i] == wordres.Superscript {
			continue
		}
		out.Unichars = append(out.Unichars, u)
		out.PerCharRating = append(out.PerCharRating, bc.PerCharRating[i])
		out.PerCharCert = append(out.PerCharCert, bc.PerCharCert[i])
	}
	return out
}

func isRepeatCharWord(bc *wordres.BestChoice) bool {
	if bc == nil || bc.Len() < 2 {
		return false
	}
	first := bc.Unichars[0]
	for _, u := range bc.Unichars[1:] {
		if u != first {
			return false
		}
	}
	return true
}

// comparable normalizes text for the "differs from current best" check
// in spec §4.5 step 4: case-insensitive, ignoring terminal punctuation.
func comparable(s string) string {
	s = strings.ToLower(s)
	return strings.TrimRight(s, ".,;:!?\"')]")
}

func alternatesOf(w *wordres.WordResult) []*wordres.BestChoice {
	all := make([]*wordres.BestChoice, 0, len(w.Alternates)+1)
	if w.BestChoiceRes != nil {
		all = append(all, w.BestChoiceRes)
	}
	all = append(all, w.Alternates...)
	return all
}

// Correct implements spec §4.5's per-pair procedure. It mutates w1/w2 in
// place when a better bigram pairing is found, and returns true if a
// replacement was made.
func Correct(w1, w2 *wordres.WordResult, oracle dict.Oracle, set *wordres.Unicharset) bool {
	if w1.LanguageIdx != w2.LanguageIdx {
		return false
	}
	if isRepeatCharWord(w1.BestChoiceRes) || isRepeatCharWord(w2.BestChoiceRes) {
		return false
	}

	body1 := stripSuperscript(w1)
	body2 := stripSuperscript(w2)
	if body1 == nil || body2 == nil {
		return false
	}
	if oracle.ValidBigram(body1.Unichars, body2.Unichars, set) {
		return false
	}

	var bestA, bestB *wordres.BestChoice
	var bestRating float32
	found := false
	for _, a := range alternatesOf(w1) {
		ab := stripAlternateSuperscript(a, w1)
		for _, b := range alternatesOf(w2) {
			bb := stripAlternateSuperscript(b, w2)
			if !oracle.ValidBigram(ab.Unichars, bb.Unichars, set) {
				continue
			}
			sum := a.Rating() + b.Rating()
			if !found || sum < bestRating {
				bestA, bestB, bestRating, found = a, b, sum, true
			}
		}
	}
	if !found {
		return false
	}

	cur1, cur2 := comparable(w1.BestChoiceRes.Text(set)), comparable(w2.BestChoiceRes.Text(set))
	new1, new2 := comparable(bestA.Text(set)), comparable(bestB.Text(set))
	if cur1 == new1 && cur2 == new2 {
		return false
	}

	w1.SetBestChoice(bestA, nil)
	w2.SetBestChoice(bestB, nil)
	w1.ComputeDone()
	w2.ComputeDone()
	return true
}

// stripAlternateSuperscript applies the same superscript stripping as
// stripSuperscript but to an arbitrary alternate choice, reusing w's
// per-character ScriptPos tags (alternates share the same chop
// structure as best_choice in this model).
func stripAlternateSuperscript(bc *wordres.BestChoice, w *wordres.WordResult) *wordres.BestChoice {
	if len(w.ScriptPos) != bc.Len() {
		return bc
	}
	out := &wordres.BestChoice{Permuter: bc.Permuter}
	for i, u := range bc.Unichars {
		if w.ScriptPos[i] == wordres.Superscript {
			continue
		}
		out.Unichars = append(out.Unichars, u)
		out.PerCharRating = append(out.PerCharRating, bc.PerCharRating[i])
		out.PerCharCert = append(out.PerCharCert, bc.PerCharCert[i])
	}
	return out
}
