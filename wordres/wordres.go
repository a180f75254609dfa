// Package wordres implements WordResult, the unit of recognition described
// in spec.md §3. It depends only on rejectmap.
package wordres

import (
	"fmt"

	"github.com/az-ai-labs/pagerec/rejectmap"
)

// ScriptPos tags a character's vertical script position.
type ScriptPos int

const (
	Normal ScriptPos = iota
	Superscript
	Subscript
)

// FontAttrs is the small set of font attributes the core tracks per word
// (spec §3 "font attributes").
type FontAttrs struct {
	Name   string
	Bold   bool
	Italic bool
	Serif  bool
}

// BlamerBundle is optional debug/attribution information. It is
// exclusively owned by its WordResult (spec §3 "Ownership").
type BlamerBundle struct {
	Trace []string
}

// Record appends a step to the blame trace, if the bundle is present.
func (b *BlamerBundle) Record(step string) {
	if b == nil {
		return
	}
	b.Trace = append(b.Trace, step)
}

// WordResult is the unit of recognition: one segmented word as it moves
// through passes 1–6 (spec §3 "WordResult").
type WordResult struct {
	// Geometry
	BBox       Box
	Baseline   float64
	XHeight    float64
	Ascender   float64
	Descender  float64
	SmallCaps  bool

	// Source image fragments
	Original       []Blob  // original polygonal blobs, pre-chop
	Chopped        []Blob  // maximally split
	Rebuilt        []Group // segmentation-search result, one group per output char
	RejectOutlines []Blob  // noise outlines set aside by the chopper (spec §4.3)

	Ratings *RatingsMatrix

	BestChoiceRes *BestChoice
	Alternates    []*BestChoice // sorted by rating, best first
	RawChoice     *BestChoice   // unfiltered top classifier output

	RejectMap *rejectmap.Map
	BoxWord   []Box // per-character bounding box, parallel to BestChoiceRes

	LanguageIdx  int // index into the languages table (spec §9)
	Font         FontAttrs
	ScriptPos    []ScriptPos // per character, parallel to BestChoiceRes

	// Control flags
	Done           bool
	TessAccepted   bool
	TessFailed     bool
	TessWouldAdapt bool
	Combination    bool
	PartOfCombo    bool // true once a fuzzy-space merge absorbs this word into a Combination; retained in the page but excluded from output (spec §3 property S2)
	OddSize        bool
	Fuzzy          bool // left boundary uncertain; considered by fuzzy-space

	// ComboSources holds, for a Combination word, the genuine original
	// words the fuzzy-space search merged to build it (spec §3 property
	// S2: "the original ... Words are marked part_of_combo" rather than
	// discarded). Each is flagged PartOfCombo once the merge is final.
	ComboSources []*WordResult

	Blamer *BlamerBundle

	// Chop-point grouping: BlobWidths/BlobGaps are parallel arrays over
	// Chopped; BestState[i] is the number of chopped blobs grouped into
	// Rebuilt[i]. sum(BestState) == len(Chopped) (spec §3 invariant).
	BlobWidths []float64
	BlobGaps   []float64
	BestState  []int
}

// New returns a WordResult for a freshly segmented word with the given
// chopped blobs. best_choice, reject_map and ratings start empty/nil and
// are populated by the first dispatch.
func New(chopped []Blob) *WordResult {
	return &WordResult{
		Chopped: chopped,
		Ratings: NewRatingsMatrix(len(chopped)),
	}
}

// NumBlobs returns the number of chopped blobs (spec §3
// "chopped_word.num_blobs").
func (w *WordResult) NumBlobs() int { return len(w.Chopped) }

// SetBestChoice installs choice as the word's best_choice, sizing
// RejectMap and BoxWord to match (spec §3 invariant:
// "best_choice.length() == reject_map.length() == box_word.length()").
// boxes must have the same length as choice.Unichars, or be nil to fill
// BoxWord with zero-value boxes (callers that don't track per-character
// boxes).
func (w *WordResult) SetBestChoice(choice *BestChoice, boxes []Box) {
	w.BestChoiceRes = choice
	n := choice.Len()
	w.RejectMap = rejectmap.New(n)
	if boxes != nil {
		w.BoxWord = boxes
	} else {
		w.BoxWord = make([]Box, n)
	}
	if len(w.ScriptPos) != n {
		w.ScriptPos = make([]ScriptPos, n)
	}
}

// MarkFailed installs the fake one-space result and all-rejected map that
// spec §4.1/§7 require for a word the classifier could not process.
func (w *WordResult) MarkFailed() {
	w.TessFailed = true
	w.TessAccepted = false
	w.SetBestChoice(FakeChoice(), nil)
	w.RejectMap.RejectAll(rejectmap.TessFailure)
	w.Done = false
}

// ValidateInvariants checks the spec §3/§8 invariants that must hold
// after every recognition step completes for this word. Returns a
// descriptive error (never panics) so callers decide whether a violation
// is an InvariantViolation (spec §7) or merely unexpected.
func (w *WordResult) ValidateInvariants() error {
	if w.BestChoiceRes == nil {
		return fmt.Errorf("wordres: no best_choice set")
	}
	bc := w.BestChoiceRes.Len()
	if w.RejectMap == nil || w.RejectMap.Len() != bc {
		return fmt.Errorf("wordres: reject_map length %d != best_choice length %d", rmLen(w.RejectMap), bc)
	}
	if len(w.BoxWord) != bc {
		return fmt.Errorf("wordres: box_word length %d != best_choice length %d", len(w.BoxWord), bc)
	}
	// A tess_failed word carries the one-space fake choice even when it
	// has no chopped blobs, so the blob-count bound applies only to
	// recognized words.
	if !w.TessFailed && w.NumBlobs() < bc {
		return fmt.Errorf("wordres: chopped blob count %d < best_choice length %d", w.NumBlobs(), bc)
	}
	if w.BestState != nil {
		sum := 0
		for _, s := range w.BestState {
			sum += s
		}
		if sum != w.NumBlobs() {
			return fmt.Errorf("wordres: sum(best_state)=%d != num_blobs=%d", sum, w.NumBlobs())
		}
	}
	if w.Ratings != nil && w.Ratings.Dimension() != w.NumBlobs() {
		return fmt.Errorf("wordres: ratings dimension %d != num_blobs %d", w.Ratings.Dimension(), w.NumBlobs())
	}
	if w.TessFailed {
		if !w.RejectMap.AllRejected() {
			return fmt.Errorf("wordres: tess_failed word must be all-rejected")
		}
		if bc < 1 {
			return fmt.Errorf("wordres: tess_failed word must have best_choice length >= 1")
		}
	}
	return nil
}

func rmLen(m *rejectmap.Map) int {
	if m == nil {
		return -1
	}
	return m.Len()
}

// ComputeDone recomputes the Done flag per spec §4.6 "Per-word 'done'
// rule": tess_accepted AND best_choice contains no space.
func (w *WordResult) ComputeDone() {
	w.Done = w.TessAccepted && w.BestChoiceRes != nil && !w.BestChoiceRes.HasSpace()
}

// Clone returns a deep copy of w. Used by the fuzzy-space resolver when
// building the working "current" run (spec §4.4 step 2: "deep copy of
// the run") and by combination-word construction (spec §3 "merges
// produce a combination word that owns deep copies of source pieces").
func (w *WordResult) Clone() *WordResult {
	out := *w
	out.Original = append([]Blob(nil), w.Original...)
	out.Chopped = append([]Blob(nil), w.Chopped...)
	out.Rebuilt = append([]Group(nil), w.Rebuilt...)
	out.RejectOutlines = append([]Blob(nil), w.RejectOutlines...)
	out.BestChoiceRes = w.BestChoiceRes.Clone()
	out.RawChoice = w.RawChoice.Clone()
	out.Alternates = make([]*BestChoice, len(w.Alternates))
	for i, a := range w.Alternates {
		out.Alternates[i] = a.Clone()
	}
	if w.RejectMap != nil {
		out.RejectMap = w.RejectMap.Clone()
	}
	out.BoxWord = append([]Box(nil), w.BoxWord...)
	out.ScriptPos = append([]ScriptPos(nil), w.ScriptPos...)
	out.BlobWidths = append([]float64(nil), w.BlobWidths...)
	out.BlobGaps = append([]float64(nil), w.BlobGaps...)
	out.BestState = append([]int(nil), w.BestState...)
	out.ComboSources = append([]*WordResult(nil), w.ComboSources...)
	if w.Blamer != nil {
		b := *w.Blamer
		b.Trace = append([]string(nil), w.Blamer.Trace...)
		out.Blamer = &b
	}
	return &out
}
