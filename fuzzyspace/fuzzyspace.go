// Package fuzzyspace implements the Fuzzy-Space Resolver (spec.md §4.4):
// for runs of words joined by uncertain inter-word gaps, it searches
// alternative space placements and keeps whichever arrangement the
// dictionary agrees with most. It depends on wordres, classify and
// pageres (to walk rows and splice results back).
package fuzzyspace

import (
	"math"
	"strings"

	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/wordres"
)

// Tunables named directly in spec §4.4.
const (
	PerfectWerds  = 999
	SmallOutline  = 0.28
	NonNoiseLimit = 1
)

// DefaultPunctBonusSet is the punctuation set the adjacency bonus checks
// against when enabled, recovered from the original fixspace punct_chars
// set ("!\"',.:;") since spec §4.4 names the rule without the set.
var DefaultPunctBonusSet = map[byte]bool{
	'!': true, '"': true, '\'': true, ',': true, ':': true, ';': true, '.': true,
}

// oneConflictChars are the characters fixspace's 1-conflict suppression
// rule treats as confusable with the digit "1".
var oneConflictChars = map[byte]bool{'1': true, 'I': true, 'l': true, '[': true, ']': true}

// FixspaceThinksWordDone implements spec §4.4's fixspace_thinks_word_done:
// true if w.Done, or (mode >= 1 AND permuter is dictionary-class AND no
// space AND (tess_accepted OR (mode >= 2 AND reject_count == 0) OR mode
// == 3)).
func FixspaceThinksWordDone(w *wordres.WordResult, mode int) bool {
	if w.Done {
		return true
	}
	if mode < 1 || w.BestChoiceRes == nil {
		return false
	}
	if !w.BestChoiceRes.Permuter.IsDictionaryClass() || w.BestChoiceRes.HasSpace() {
		return false
	}
	if w.TessAccepted {
		return true
	}
	if mode >= 2 && w.RejectMap != nil && w.RejectMap.RejectCount() == 0 {
		return true
	}
	return mode == 3
}

func endsWithDigit(s string) bool {
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}

func startsWithConflict(s string) bool {
	return s != "" && oneConflictChars[s[0]]
}

// EvalWordSpacing implements spec §4.4's eval_word_spacing: a higher
// score is better; PerfectWerds means every word in run is "done".
func EvalWordSpacing(run []*wordres.WordResult, set *wordres.Unicharset, mode int, punctBonus bool, punctSet map[byte]bool) int {
	if len(run) == 0 {
		return PerfectWerds
	}
	texts := make([]string, len(run))
	allDone := true
	score := 0

	for i, w := range run {
		done := FixspaceThinksWordDone(w, mode)
		if !done {
			allDone = false
		}
		if w.BestChoiceRes != nil {
			texts[i] = w.BestChoiceRes.Text(set)
		}
		if !done {
			continue
		}
		suppress := false
		if i+1 < len(run) && endsWithDigit(texts[i]) {
			if next := run[i+1].BestChoiceRes; next != nil && startsWithConflict(next.Text(set)) {
				suppress = true
			}
		}
		if i > 0 && startsWithConflict(texts[i]) {
			if prev := run[i-1].BestChoiceRes; prev != nil && endsWithDigit(prev.Text(set)) {
				suppress = true
			}
		}
		if !suppress && w.BestChoiceRes != nil {
			score += w.BestChoiceRes.Len()
		}
	}

	full := strings.Join(texts, "")
	for i := 0; i+1 < len(full); i++ {
		a, b := full[i], full[i+1]
		if a == '1' && b == '1' {
			score++
		}
		if punctBonus && punctSet[a] && punctSet[b] {
			score++
		}
	}

	if allDone {
		return PerfectWerds
	}
	return score
}

func cloneRun(run []*wordres.WordResult) []*wordres.WordResult {
	out := make([]*wordres.WordResult, len(run))
	for i, w := range run {
		out[i] = w.Clone()
	}
	return out
}

// seedRun produces the search's first working copy of run: clones for
// in-place mutation, each tagged with the one true original word it
// stands in for. A later merge accumulates these through ComboSources so
// the eventual winning arrangement can mark the real originals
// part_of_combo instead of the clones (spec §3 property S2).
func seedRun(run []*wordres.WordResult) []*wordres.WordResult {
	out := make([]*wordres.WordResult, len(run))
	for i, w := range run {
		c := w.Clone()
		c.ComboSources = []*wordres.WordResult{w}
		out[i] = c
	}
	return out
}

func matchCurrentWords(current []*wordres.WordResult, legacy classify.LegacyClassifier) {
	for _, w := range current {
		if w.BestChoiceRes != nil || legacy == nil {
			continue
		}
		best, alternates, accepted, wouldAdapt := legacy.ClassifyWord(w)
		if best == nil {
			w.MarkFailed()
			continue
		}
		w.SetBestChoice(best, nil)
		w.Alternates = alternates
		w.TessAccepted = accepted
		w.TessWouldAdapt = wouldAdapt
		w.ComputeDone()
	}
}

func mergeBox(a, b wordres.Box) wordres.Box {
	out := a
	if b.X0 < out.X0 {
		out.X0 = b.X0
	}
	if b.Y0 < out.Y0 {
		out.Y0 = b.Y0
	}
	if b.X1 > out.X1 {
		out.X1 = b.X1
	}
	if b.Y1 > out.Y1 {
		out.Y1 = b.Y1
	}
	return out
}

// combineWords builds a fresh combination word spanning pieces (spec
// §4.4 step 3c: "creating a new combination word spanning the joined
// pieces"). The result has no best_choice yet; match_current_words
// reclassifies it on the next loop iteration.
func combineWords(pieces []*wordres.WordResult) *wordres.WordResult {
	var chopped []wordres.Blob
	var sources []*wordres.WordResult
	box := pieces[0].BBox
	for _, p := range pieces {
		chopped = append(chopped, p.Chopped...)
		box = mergeBox(box, p.BBox)
		sources = append(sources, p.ComboSources...)
	}
	w := wordres.New(chopped)
	w.BBox = box
	w.Baseline = pieces[0].Baseline
	w.XHeight = pieces[0].XHeight
	w.Combination = true
	w.ComboSources = sources
	return w
}

// transformToNextPerm implements spec §4.4 step 3c: find the smallest
// inter-word gap and close every gap of that size by merging the tied
// adjacent words into combination words. Returns (current, false) when
// no gaps remain (a single word, or empty), signalling termination.
func transformToNextPerm(current []*wordres.WordResult) ([]*wordres.WordResult, bool) {
	if len(current) < 2 {
		return current, false
	}
	gaps := make([]float64, len(current)-1)
	minGap := math.MaxFloat64
	for i := 0; i < len(current)-1; i++ {
		gaps[i] = current[i+1].BBox.X0 - current[i].BBox.X1
		if gaps[i] < minGap {
			minGap = gaps[i]
		}
	}

	var out []*wordres.WordResult
	i := 0
	for i < len(current) {
		if i < len(current)-1 && gaps[i] == minGap {
			j := i
			pieces := []*wordres.WordResult{current[j]}
			for j < len(current)-1 && gaps[j] == minGap {
				pieces = append(pieces, current[j+1])
				j++
			}
			out = append(out, combineWords(pieces))
			i = j + 1
		} else {
			out = append(out, current[i])
			i++
		}
	}
	return out, true
}

// FixFuzzySpaceList implements spec §4.4's search algorithm for a single
// run: iteratively merge words at the smallest gap, reclassify, and keep
// whichever arrangement scores best. The returned slice honors spec §3
// property S2: any run word the winning arrangement merged away is kept
// (flagged part_of_combo) immediately after the combination word that
// absorbed it, rather than discarded.
func FixFuzzySpaceList(run []*wordres.WordResult, legacy classify.LegacyClassifier, set *wordres.Unicharset, mode int, punctBonus bool, punctSet map[byte]bool) []*wordres.WordResult {
	if EvalWordSpacing(run, set, mode, punctBonus, punctSet) == PerfectWerds {
		return run
	}

	current := seedRun(run)
	best := cloneRun(current)
	bestScore := EvalWordSpacing(best, set, mode, punctBonus, punctSet)

	for len(current) > 0 {
		matchCurrentWords(current, legacy)
		score := EvalWordSpacing(current, set, mode, punctBonus, punctSet)
		if score > bestScore {
			best, bestScore = cloneRun(current), score
		}
		if score == PerfectWerds {
			break
		}
		next, more := transformToNextPerm(current)
		if !more {
			break
		}
		current = next
	}
	return resolveCombinations(best)
}

// resolveCombinations implements spec §3 property S2's mark-and-keep
// postcondition. A plain (never-merged) slot resolves back to the
// genuine original word, discarding its working clone; a Combination
// word is kept as a new entity and followed by its real sources, each
// flagged part_of_combo so later passes iterate over them but exclude
// them from output (see orchestrator.activeWords).
func resolveCombinations(best []*wordres.WordResult) []*wordres.WordResult {
	out := make([]*wordres.WordResult, 0, len(best))
	for _, w := range best {
		if !w.Combination {
			out = append(out, w.ComboSources[0])
			continue
		}
		out = append(out, w)
		for _, src := range w.ComboSources {
			src.PartOfCombo = true
			out = append(out, src)
		}
	}
	return out
}

// FixFuzzySpaces implements spec §4.4's fix_fuzzy_spaces: it walks every
// row of page, finds maximal runs of consecutive words joined by fuzzy
// gaps (word.Fuzzy tags the gap to its left), and replaces each run with
// FixFuzzySpaceList's result.
func FixFuzzySpaces(page *pageres.PageResult, legacy classify.LegacyClassifier, set *wordres.Unicharset, mode int, punctBonus bool, punctSet map[byte]bool) {
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			row.Words = fixRow(row.Words, legacy, set, mode, punctBonus, punctSet)
		}
	}
}

func fixRow(words []*wordres.WordResult, legacy classify.LegacyClassifier, set *wordres.Unicharset, mode int, punctBonus bool, punctSet map[byte]bool) []*wordres.WordResult {
	var out []*wordres.WordResult
	i := 0
	for i < len(words) {
		j := i + 1
		for j < len(words) && words[j].Fuzzy {
			j++
		}
		run := words[i:j]
		if len(run) > 1 {
			out = append(out, FixFuzzySpaceList(run, legacy, set, mode, punctBonus, punctSet)...)
		} else {
			out = append(out, run...)
		}
		i = j
	}
	return out
}

func blobNoiseScore(b wordres.Blob, word *wordres.WordResult) float64 {
	size := b.Box.Width() * b.Box.Height()
	mid := (b.Box.Y0 + b.Box.Y1) / 2
	distFromBaseline := math.Abs(word.Baseline - mid)
	return size - distFromBaseline
}

func isRepeatCharWord(word *wordres.WordResult) bool {
	if word.BestChoiceRes == nil || word.BestChoiceRes.Len() < 2 {
		return false
	}
	first := word.BestChoiceRes.Unichars[0]
	for _, u := range word.BestChoiceRes.Unichars[1:] {
		if u != first {
			return false
		}
	}
	return true
}

func boxUnion(blobs []wordres.Blob) wordres.Box {
	box := blobs[0].Box
	for _, b := range blobs[1:] {
		box = mergeBox(box, b.Box)
	}
	return box
}

// FixSpFpWord implements spec §4.4's fix_sp_fp_word for fixed-pitch
// input: split word at its worst noise blob if doing so scores better,
// per the guard conditions named in §4.4.
func FixSpFpWord(word *wordres.WordResult, legacy classify.LegacyClassifier, set *wordres.Unicharset, mode int, punctBonus bool, punctSet map[byte]bool) ([]*wordres.WordResult, bool) {
	n := len(word.Chopped)
	if n < 5 {
		return []*wordres.WordResult{word}, false
	}

	worstIdx := 0
	worstScore := blobNoiseScore(word.Chopped[0], word)
	for i := 1; i < n; i++ {
		s := blobNoiseScore(word.Chopped[i], word)
		if s < worstScore {
			worstScore, worstIdx = s, i
		}
	}
	if worstIdx < NonNoiseLimit || worstIdx >= n-NonNoiseLimit {
		return []*wordres.WordResult{word}, false
	}

	blob := word.Chopped[worstIdx]
	maxDim := blob.Box.Width()
	if blob.Box.Height() > maxDim {
		maxDim = blob.Box.Height()
	}
	if word.XHeight > 0 && maxDim > SmallOutline*word.XHeight {
		return []*wordres.WordResult{word}, false
	}
	if isRepeatCharWord(word) {
		return []*wordres.WordResult{word}, false
	}

	leftBlobs := append([]wordres.Blob(nil), word.Chopped[:worstIdx]...)
	rightBlobs := append([]wordres.Blob(nil), word.Chopped[worstIdx+1:]...)
	if len(leftBlobs) == 0 || len(rightBlobs) == 0 {
		return []*wordres.WordResult{word}, false
	}

	left := wordres.New(leftBlobs)
	left.BBox = boxUnion(leftBlobs)
	left.Baseline, left.XHeight = word.Baseline, word.XHeight
	right := wordres.New(rightBlobs)
	right.BBox = boxUnion(rightBlobs)
	right.Baseline, right.XHeight = word.Baseline, word.XHeight

	split := []*wordres.WordResult{left, right}
	matchCurrentWords(split, legacy)

	origScore := EvalWordSpacing([]*wordres.WordResult{word}, set, mode, punctBonus, punctSet)
	newScore := EvalWordSpacing(split, set, mode, punctBonus, punctSet)
	if newScore > origScore {
		return split, true
	}
	return []*wordres.WordResult{word}, false
}
