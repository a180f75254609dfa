// Package classify implements the Classifier Adapter (spec.md §4.2, §6,
// §9): a tagged variant over {Legacy, Sequence} with a single dispatch
// entry point, replacing the source's deep virtual dispatch per the
// re-architecture guidance in spec §9.
package classify

import (
	"github.com/az-ai-labs/pagerec/wordres"
)

// Image is the opaque pixel-data handle ImageProvider hands back (spec
// §6: "best_pix(): best-available-depth image"). The core never inspects
// its contents — it is passed through to the classifiers.
type Image interface{}

// ImageProvider is the external collaborator supplying page pixel data
// (spec §6).
type ImageProvider interface {
	BestPix() Image
	ImageWidth() int
	ImageHeight() int
	SourceResolution() int
}

// LegacyClassifier is the segmentation-search classifier external
// collaborator (spec §6).
type LegacyClassifier interface {
	// ClassifyWord populates the ratings matrix for word and returns the
	// resulting best choice, alternates (sorted by rating, best first),
	// and acceptance flags.
	ClassifyWord(word *wordres.WordResult) (best *wordres.BestChoice, alternates []*wordres.BestChoice, tessAccepted, tessWouldAdapt bool)
	// ClassifyBlob classifies a single blob in isolation, used by the
	// diacritic reassigner and the bounded parallel pre-classification
	// stage (spec §4.3, §5).
	ClassifyBlob(blob wordres.Blob) []wordres.Candidate
}

// LineResult is one word's worth of output from SequenceRecognizer.
type LineResult struct {
	Best            *wordres.BestChoice
	PerStepAlts     [][]wordres.Candidate
	SpaceCertainty  float32
}

// SequenceRecognizer is the neural sequence recognizer external
// collaborator (spec §6). It may emit more than one LineResult for a
// single input word image (the legacy word boundary did not match a
// model-internal space).
type SequenceRecognizer interface {
	RecognizeLine(img Image, threshold float64, certaintyCutoff float32, box wordres.Box, invert bool) []LineResult
}

// SequenceCertaintyScale is applied to SequenceRecognizer certainties to
// align them with the legacy classifier's certainty range (spec §6:
// "a confidence scale factor (≈7) is applied").
const SequenceCertaintyScale = 7.0

// Kind tags which engine a Classifier dispatches to.
type Kind int

const (
	KindLegacy Kind = iota
	KindSequence
)

// Classifier is the tagged {Legacy, Sequence} variant spec §9 calls for
// in place of virtual dispatch across classifier kinds. Mode controls
// combined-engine fallback (spec §4.2 "Engine dispatch decision").
type Classifier struct {
	Legacy   LegacyClassifier
	Sequence SequenceRecognizer
}

// Mode selects which engine(s) Dispatch tries (spec §4.2).
type Mode int

const (
	ModeSequenceOnly Mode = iota
	ModeLegacyOnly
	ModeCombined
)

// Dispatch runs word through the engine(s) selected by mode against img,
// mutating word in place for the legacy path or returning a fresh
// sequence of WordResults for the sequence path (spec §4.2 "Engine
// dispatch decision", §9 "single entry point taking a word and returning
// candidate WordResults").
func Dispatch(c *Classifier, mode Mode, word *wordres.WordResult, img ImageProvider) []*wordres.WordResult {
	switch mode {
	case ModeLegacyOnly:
		return []*wordres.WordResult{runLegacy(c, word)}
	case ModeSequenceOnly:
		return runSequence(c, word, img)
	default: // ModeCombined
		out := runSequence(c, word, img)
		if len(out) == 0 || allOddSizeOrFailed(out) {
			return []*wordres.WordResult{runLegacy(c, word)}
		}
		return out
	}
}

func allOddSizeOrFailed(words []*wordres.WordResult) bool {
	for _, w := range words {
		if w.TessFailed || w.OddSize {
			return true
		}
	}
	return false
}

func runLegacy(c *Classifier, word *wordres.WordResult) *wordres.WordResult {
	if c.Legacy == nil {
		word.MarkFailed()
		return word
	}
	best, alternates, accepted, wouldAdapt := c.Legacy.ClassifyWord(word)
	if best == nil {
		word.MarkFailed()
		return word
	}
	word.SetBestChoice(best, nil)
	word.Alternates = alternates
	word.RawChoice = best.Clone()
	word.TessAccepted = accepted
	word.TessWouldAdapt = wouldAdapt
	word.ComputeDone()
	return word
}

func runSequence(c *Classifier, word *wordres.WordResult, img ImageProvider) []*wordres.WordResult {
	if c.Sequence == nil || img == nil {
		word.MarkFailed()
		return []*wordres.WordResult{word}
	}
	results := c.Sequence.RecognizeLine(img.BestPix(), 0, -20, word.BBox, false)
	if len(results) == 0 {
		word.MarkFailed()
		return []*wordres.WordResult{word}
	}

	out := make([]*wordres.WordResult, len(results))
	for i, r := range results {
		w := word
		if i > 0 || len(results) > 1 {
			w = word.Clone()
		}
		scaled := r.Best.Clone()
		for j := range scaled.PerCharCert {
			scaled.PerCharCert[j] *= SequenceCertaintyScale
		}
		w.SetBestChoice(scaled, nil)
		w.Chopped = syntheticBlobs(scaled.Len())
		w.BestState = onesOf(scaled.Len())
		w.Ratings = wordres.NewRatingsMatrix(scaled.Len())
		w.TessAccepted = true
		w.ComputeDone()
		out[i] = w
	}
	return out
}

// syntheticBlobs stands in for the per-character blob structure a
// sequence model does not produce — one synthetic blob per output
// character, satisfying the chopped_word.num_blobs >= best_choice.length
// invariant (spec §3).
func syntheticBlobs(n int) []wordres.Blob {
	if n == 0 {
		n = 1
	}
	blobs := make([]wordres.Blob, n)
	for i := range blobs {
		blobs[i] = wordres.Blob{ID: i}
	}
	return blobs
}

func onesOf(n int) []int {
	if n == 0 {
		n = 1
	}
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
