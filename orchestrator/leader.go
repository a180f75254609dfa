package orchestrator

import (
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/wordres"
)

// HarmonizeLeaders implements spec.md §4.1 step 3's pass-1 hook:
// repeated-character ("leader") words — e.g. a run of dots or dashes
// used as a table-of-contents leader — have every position harmonized
// to the single most frequent classifier choice in the word, since a
// leader's glyphs are visually identical and per-character
// misclassification noise should not survive into the final text.
func HarmonizeLeaders(row *pageres.Row) {
	for _, w := range row.Words {
		if w.BestChoiceRes == nil || w.BestChoiceRes.Len() < 3 {
			continue
		}
		if !isLeaderWord(w.BestChoiceRes.Unichars) {
			continue
		}
		leader := mostFrequent(w.BestChoiceRes.Unichars)
		for i := range w.BestChoiceRes.Unichars {
			w.BestChoiceRes.Unichars[i] = leader
		}
	}
}

func isLeaderWord(ids []wordres.UnicharID) bool {
	counts := make(map[wordres.UnicharID]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	for _, c := range counts {
		if c*2 >= len(ids) {
			return true
		}
	}
	return false
}

func mostFrequent(ids []wordres.UnicharID) wordres.UnicharID {
	counts := make(map[wordres.UnicharID]int, len(ids))
	best, bestCount := ids[0], 0
	for _, id := range ids {
		counts[id]++
		if counts[id] > bestCount {
			best, bestCount = id, counts[id]
		}
	}
	return best
}
