// Package diacritic implements the Diacritic Reassigner (spec.md §4.3):
// it moves noise outlines the chopper set aside (tittles, accents,
// fragments) into or between a word's main blobs, so the classifier sees
// "i" rather than a bare stem, or "é" rather than a bare "e". It depends
// on wordres and classify (the Classifier Adapter).
package diacritic

import (
	"sort"

	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/wordres"
)

// Tunables named directly in spec §4.3.
const (
	MaxNoisePerWord   = 16
	MaxNoisePerBlob   = 8
	NoiseCertFactor   = 0.375
	NoiseCertBasechar = -8.0
	NoiseCertDisjoint = -2.5
	NoiseCertPunc     = -2.5
)

// Result reports what Reassign did, so the caller can apply the pass-1
// side effects spec §4.1 step d and §4.3 step 5 describe.
type Result struct {
	Placed           int  // outlines successfully attached or made standalone
	ExtendedRight    bool // an inserted blob extends past the word's original right edge
	NonOverlappedUsed int // preserved counting quirk, see spec §9 Open Questions #1
}

func bestCertainty(cands []wordres.Candidate) float32 {
	if len(cands) == 0 {
		return -1e9
	}
	best := cands[0].Certainty
	for _, c := range cands[1:] {
		if c.Certainty > best {
			best = c.Certainty
		}
	}
	return best
}

func mergeBoxes(boxes ...wordres.Box) wordres.Box {
	out := boxes[0]
	for _, b := range boxes[1:] {
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
	}
	return out
}

func boxesOf(outlines []wordres.Blob, idxs []int) []wordres.Box {
	boxes := make([]wordres.Box, len(idxs))
	for i, idx := range idxs {
		boxes[i] = outlines[idx].Box
	}
	return boxes
}

func removeAt(idxs []int, pos int) []int {
	out := make([]int, 0, len(idxs)-1)
	out = append(out, idxs[:pos]...)
	out = append(out, idxs[pos+1:]...)
	return out
}

// Reassign runs the diacritic reassignment algorithm on word, using
// legacy to classify candidate merged blobs. certaintyThreshold is not
// read: step 2's relaxation target is computed against the fixed
// NoiseCertBasechar constant (threshold_basechar in spec §4.3 step 2).
func Reassign(word *wordres.WordResult, legacy classify.LegacyClassifier, certaintyThreshold float32) Result {
	var res Result
	if len(word.RejectOutlines) == 0 || len(word.Chopped) == 0 {
		return res
	}
	if len(word.RejectOutlines) > MaxNoisePerWord {
		return res
	}

	outlines := append([]wordres.Blob(nil), word.RejectOutlines...)
	sort.Slice(outlines, func(i, j int) bool { return outlines[i].Box.XMid() < outlines[j].Box.XMid() })
	used := make([]bool, len(outlines))

	// Step 2: attach overlap candidates into their overlapping main blob.
	for bi := range word.Chopped {
		blob := &word.Chopped[bi]
		var candidates []int
		for oi, out := range outlines {
			if !used[oi] && out.Box.Overlaps(blob.Box) {
				candidates = append(candidates, oi)
			}
		}
		if len(candidates) == 0 || len(candidates) > MaxNoisePerBlob {
			continue
		}

		baseline := bestCertainty(legacy.ClassifyBlob(*blob))
		threshold := baseline - NoiseCertFactor*(baseline-NoiseCertBasechar)

		included := append([]int(nil), candidates...)
		merged := func(idxs []int) wordres.Blob {
			boxes := append([]wordres.Box{blob.Box}, boxesOf(outlines, idxs)...)
			return wordres.Blob{ID: blob.ID, Box: mergeBoxes(boxes...)}
		}
		curCert := bestCertainty(legacy.ClassifyBlob(merged(included)))

		for len(included) > 0 {
			bestIdx, bestCert, improved := -1, curCert, false
			for k := range included {
				trial := removeAt(included, k)
				var c float32
				if len(trial) == 0 {
					c = baseline
				} else {
					c = bestCertainty(legacy.ClassifyBlob(merged(trial)))
				}
				if c > bestCert {
					bestIdx, bestCert, improved = k, c, true
				}
			}
			if !improved {
				break
			}
			included = removeAt(included, bestIdx)
			curCert = bestCert
		}

		if curCert >= threshold {
			boxes := append([]wordres.Box{blob.Box}, boxesOf(outlines, included)...)
			blob.Box = mergeBoxes(boxes...)
			for _, idx := range included {
				used[idx] = true
				res.Placed++
			}
		}
	}

	// Step 4: remaining (non-overlapping) outlines, grouped by x-adjacency.
	var remaining []wordres.Blob
	for oi, out := range outlines {
		if !used[oi] {
			remaining = append(remaining, out)
		}
	}
	groups := groupByAdjacency(remaining)

	originalRight := word.BBox.X1
	for _, group := range groups {
		gbox := mergeBoxes(boxesFromBlobs(group)...)
		placed := false

		if left := nearestLeft(word.Chopped, gbox); left != nil {
			merged := wordres.Blob{ID: left.ID, Box: mergeBoxes(left.Box, gbox)}
			if bestCertainty(legacy.ClassifyBlob(merged)) >= NoiseCertDisjoint {
				left.Box = merged.Box
				res.Placed += len(group)
				res.NonOverlappedUsed++
				res.NonOverlappedUsed++ // preserved double increment, see spec §9 Open Questions #1
				placed = true
			}
		}
		if !placed {
			if right := nearestRight(word.Chopped, gbox); right != nil {
				merged := wordres.Blob{ID: right.ID, Box: mergeBoxes(right.Box, gbox)}
				if bestCertainty(legacy.ClassifyBlob(merged)) >= NoiseCertDisjoint {
					right.Box = merged.Box
					res.Placed += len(group)
					res.NonOverlappedUsed++
					res.NonOverlappedUsed++ // preserved double increment, see spec §9 Open Questions #1
					placed = true
				}
			}
		}
		if !placed {
			standalone := wordres.Blob{ID: nextBlobID(word.Chopped), Box: gbox}
			if bestCertainty(legacy.ClassifyBlob(standalone)) >= NoiseCertPunc {
				word.Chopped = append(word.Chopped, standalone)
				res.Placed += len(group)
				if gbox.X1 > originalRight {
					res.ExtendedRight = true
				}
				placed = true
			}
		}
		if placed {
			for _, b := range group {
				markOutlineUsed(outlines, used, b)
			}
		}
	}

	if res.Placed > 0 {
		sort.Slice(word.Chopped, func(i, j int) bool { return word.Chopped[i].Box.X0 < word.Chopped[j].Box.X0 })
	}

	word.RejectOutlines = nil
	for oi, out := range outlines {
		if !used[oi] {
			word.RejectOutlines = append(word.RejectOutlines, out)
		}
	}
	return res
}

func boxesFromBlobs(blobs []wordres.Blob) []wordres.Box {
	boxes := make([]wordres.Box, len(blobs))
	for i, b := range blobs {
		boxes[i] = b.Box
	}
	return boxes
}

func markOutlineUsed(outlines []wordres.Blob, used []bool, target wordres.Blob) {
	for i, o := range outlines {
		if !used[i] && o.ID == target.ID {
			used[i] = true
			return
		}
	}
}

func nextBlobID(blobs []wordres.Blob) int {
	max := -1
	for _, b := range blobs {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}

// groupByAdjacency forms contiguous groups of x-sorted outlines: any two
// outlines whose boxes horizontally overlap, or are separated by a small
// gap relative to their width, join the same group (spec §4.3 step 4
// "form contiguous groups by x-adjacency").
func groupByAdjacency(outlines []wordres.Blob) [][]wordres.Blob {
	if len(outlines) == 0 {
		return nil
	}
	sorted := append([]wordres.Blob(nil), outlines...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Box.X0 < sorted[j].Box.X0 })

	var groups [][]wordres.Blob
	cur := []wordres.Blob{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		prev := cur[len(cur)-1]
		gap := sorted[i].Box.X0 - prev.Box.X1
		adjacentGapLimit := prev.Box.Width()
		if adjacentGapLimit <= 0 {
			adjacentGapLimit = 1
		}
		if gap <= adjacentGapLimit {
			cur = append(cur, sorted[i])
		} else {
			groups = append(groups, cur)
			cur = []wordres.Blob{sorted[i]}
		}
	}
	groups = append(groups, cur)
	return groups
}

func nearestLeft(blobs []wordres.Blob, gbox wordres.Box) *wordres.Blob {
	var best *wordres.Blob
	bestDist := -1.0
	for i := range blobs {
		b := &blobs[i]
		if b.Box.X1 <= gbox.X0 {
			dist := gbox.X0 - b.Box.X1
			if bestDist < 0 || dist < bestDist {
				bestDist, best = dist, b
			}
		}
	}
	return best
}

func nearestRight(blobs []wordres.Blob, gbox wordres.Box) *wordres.Blob {
	var best *wordres.Blob
	bestDist := -1.0
	for i := range blobs {
		b := &blobs[i]
		if b.Box.X0 >= gbox.X1 {
			dist := b.Box.X0 - gbox.X1
			if bestDist < 0 || dist < bestDist {
				bestDist, best = dist, b
			}
		}
	}
	return best
}
