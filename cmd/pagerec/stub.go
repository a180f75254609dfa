package main

import (
	"github.com/az-ai-labs/pagerec/wordres"
)

// stubClassifier is a classify.LegacyClassifier that has no image
// pipeline: it returns the ground-truth text a fixture word was built
// with, looked up by word identity, as its best choice. It exists only
// to drive recognize_all_words for this demo driver.
type stubClassifier struct {
	set  *wordres.Unicharset
	text map[*wordres.WordResult]string
}

func newStubClassifier(set *wordres.Unicharset) *stubClassifier {
	return &stubClassifier{set: set, text: make(map[*wordres.WordResult]string)}
}

func (s *stubClassifier) register(w *wordres.WordResult, text string) {
	s.text[w] = text
}

func (s *stubClassifier) ClassifyWord(word *wordres.WordResult) (*wordres.BestChoice, []*wordres.BestChoice, bool, bool) {
	text, ok := s.text[word]
	if !ok {
		return nil, nil, false, false
	}
	bc := &wordres.BestChoice{Permuter: wordres.SystemDawg}
	for _, r := range text {
		bc.Unichars = append(bc.Unichars, s.set.Intern(string(r)))
		bc.PerCharRating = append(bc.PerCharRating, 1)
		bc.PerCharCert = append(bc.PerCharCert, -1)
	}
	return bc, nil, true, false
}

func (s *stubClassifier) ClassifyBlob(blob wordres.Blob) []wordres.Candidate {
	return []wordres.Candidate{{Unichar: wordres.UnicharID(blob.ID), Rating: 1, Certainty: -1}}
}
