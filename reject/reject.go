// Package reject implements the Rejection Engine (spec.md §4.6): it
// builds each word's reject map, decides the per-word "done" rule, and
// scores document/block/row quality to drive a second, stricter
// rejection sweep. It depends on wordres, rejectmap, dict and pageres.
package reject

import (
	"github.com/az-ai-labs/pagerec/dict"
	"github.com/az-ai-labs/pagerec/internal/caseclass"
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/rejectmap"
	"github.com/az-ai-labs/pagerec/wordres"
)

// Tunables named directly in spec §4.6.
const (
	MinSaneXHtPixels = 8
	ImageBorder      = 2

	QualityRejPc     = 0.08
	QualityBlobPc    = 0.0
	QualityOutlinePc = 1.0
	QualityCharPc    = 0.95
)

var oneConflictPairs = map[byte]byte{'I': 'l', 'l': 'I'}

// GarbageLevel classifies a block or row's overall recognition quality,
// recovered from tesseract's docqual.h GARBAGE_LEVEL enum (not named in
// spec §4.6, which calls for document/block-level rejection without
// giving the summary a return type).
type GarbageLevel int

const (
	GNeverCrunch GarbageLevel = iota
	GOK
	GDodgy
	GTerrible
)

// Classify buckets a block/row's quality ratios into a GarbageLevel: a
// document already judged good quality is never crunched further; below
// that, how far the ratios miss the quality thresholds decides dodgy vs
// terrible.
func (q *DocQuality) Classify() GarbageLevel {
	if q.CharCount == 0 || q.GoodQuality() {
		return GNeverCrunch
	}
	rejPc := float64(q.RejectCount) / float64(q.CharCount)
	switch {
	case rejPc <= 2*QualityRejPc:
		return GOK
	case rejPc <= 4*QualityRejPc:
		return GDodgy
	default:
		return GTerrible
	}
}

// FlipZeroO applies spec §4.6 step 1's '0'<->'O' substitution to
// non-sub/superscript characters, based on aspect ratio: a digit-zero
// classified result whose box is squarer or wider than a typical digit
// glyph (height/width below 1.1) is re-labelled 'O', and vice versa. set.Intern is used so both
// '0' and 'O' unichar ids always exist.
func FlipZeroO(w *wordres.WordResult, set *wordres.Unicharset) {
	if w.BestChoiceRes == nil {
		return
	}
	zero, oh := set.Intern("0"), set.Intern("O")
	for i, u := range w.BestChoiceRes.Unichars {
		if u != zero && u != oh {
			continue
		}
		if len(w.ScriptPos) == w.BestChoiceRes.Len() && w.ScriptPos[i] != wordres.Normal {
			continue
		}
		if i >= len(w.BoxWord) {
			continue
		}
		box := w.BoxWord[i]
		aspect := box.Height()
		if box.Width() > 0 {
			aspect = box.Height() / box.Width()
		}
		// Digits are typically taller than they are wide; a squarer or
		// wider box reads more like a capital "O".
		switch {
		case u == zero && aspect < 1.1:
			w.BestChoiceRes.Unichars[i] = oh
		case u == oh && aspect >= 1.1:
			w.BestChoiceRes.Unichars[i] = zero
		}
	}
}

// FlipHyphens applies spec §4.6 step 1's '.'<->'-' substitution, based
// on vertical position: a period sitting well above the baseline reads
// more like a hyphen, and vice versa.
func FlipHyphens(w *wordres.WordResult, set *wordres.Unicharset) {
	if w.BestChoiceRes == nil {
		return
	}
	period, hyphen := set.Intern("."), set.Intern("-")
	for i, u := range w.BestChoiceRes.Unichars {
		if u != period && u != hyphen {
			continue
		}
		if len(w.ScriptPos) == w.BestChoiceRes.Len() && w.ScriptPos[i] != wordres.Normal {
			continue
		}
		if i >= len(w.BoxWord) {
			continue
		}
		mid := (w.BoxWord[i].Y0 + w.BoxWord[i].Y1) / 2
		aboveBaseline := w.Baseline - mid
		switch {
		case u == period && w.XHeight > 0 && aboveBaseline > 0.3*w.XHeight:
			w.BestChoiceRes.Unichars[i] = hyphen
		case u == hyphen && w.XHeight > 0 && aboveBaseline <= 0.3*w.XHeight:
			w.BestChoiceRes.Unichars[i] = period
		}
	}
}

// RejectBlanks flags every character whose unichar is a space as
// TESS_FAILURE (spec §4.6 step 2).
func RejectBlanks(w *wordres.WordResult) {
	if w.BestChoiceRes == nil || w.RejectMap == nil {
		return
	}
	for i, u := range w.BestChoiceRes.Unichars {
		if wordres.IsSpace(u) {
			w.RejectMap.Reject(i, rejectmap.TessFailure)
		}
	}
}

// RejectSmallXHeight rejects the whole word as too-small when its
// x-height, in image pixels, is at or below MinSaneXHtPixels (spec §4.6
// step 3). Returns true if the word was rejected.
func RejectSmallXHeight(w *wordres.WordResult, xHeightPixels float64) bool {
	if xHeightPixels > MinSaneXHtPixels || w.RejectMap == nil {
		return false
	}
	w.RejectMap.RejectAll(rejectmap.BadQuality)
	return true
}

// OneEllConflict implements spec §4.6 step 4: detect words whose
// recognized content is ambiguous under the 1/I/l confusion set. If
// flipping a leading 'I' to 'l' (or vice versa) would make the word
// dictionary-valid, the position is marked ONE_IL_CONFLICT; when update
// is true the reject map is updated accordingly. Returns whether a
// conflict was found.
func OneEllConflict(w *wordres.WordResult, oracle dict.Oracle, set *wordres.Unicharset, update bool) bool {
	if w.BestChoiceRes == nil || w.BestChoiceRes.Len() == 0 {
		return false
	}
	first := set.String(w.BestChoiceRes.Unichars[0])
	flipped, ok := oneConflictPairs[byteOrZero(first)]
	if !ok {
		return false
	}
	candidate := w.BestChoiceRes.Clone()
	candidate.Unichars[0] = set.Intern(string(flipped))
	if oracle.ValidWord(candidate.Unichars, set) == wordres.NoPerm {
		return false
	}
	if update && w.RejectMap != nil {
		w.RejectMap.Reject(0, rejectmap.OneIlConflict)
	}
	return true
}

func byteOrZero(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// FlagEdgeChars flags every character within ImageBorder pixels of any
// image edge as EDGE_CHAR (spec §4.6 step 5).
func FlagEdgeChars(w *wordres.WordResult, imageWidth, imageHeight int) {
	if w.RejectMap == nil {
		return
	}
	for i, box := range w.BoxWord {
		if i >= w.RejectMap.Len() {
			break
		}
		if box.X0 <= ImageBorder || box.Y0 <= ImageBorder ||
			float64(imageWidth)-box.X1 <= ImageBorder ||
			float64(imageHeight)-box.Y1 <= ImageBorder {
			w.RejectMap.Reject(i, rejectmap.EdgeChar)
		}
	}
}

// AcceptByPermuter implements spec §4.6 step 6: accept only if
// tess_accepted AND no spaces AND the permuter is dictionary-class (or
// NUMBER with all-digit content); otherwise flag BAD_PERMUTER across the
// whole word. NUMBER is excluded from the general dictionary-class check
// here and tested separately against allDigitUnichars: IsDictionaryClass
// already reports NUMBER as dictionary-class for spec §4.2's adaptation
// gate, but step 6 additionally requires the content itself be all-digit,
// so NUMBER must not short-circuit past that check.
func AcceptByPermuter(w *wordres.WordResult, set *wordres.Unicharset) {
	if w.BestChoiceRes == nil || w.RejectMap == nil {
		return
	}
	perm := w.BestChoiceRes.Permuter
	dictClass := perm.IsDictionaryClass() && perm != wordres.Number
	ok := w.TessAccepted && !w.BestChoiceRes.HasSpace() &&
		(dictClass || (perm == wordres.Number && allDigitUnichars(w, set)))
	if !ok {
		w.RejectMap.RejectAll(rejectmap.BadPermuter)
	}
}

func allDigitUnichars(w *wordres.WordResult, set *wordres.Unicharset) bool {
	if set == nil {
		return false
	}
	for _, u := range w.BestChoiceRes.Unichars {
		s := set.String(u)
		if len(s) != 1 || s[0] < '0' || s[0] > '9' {
			return false
		}
	}
	return true
}

// BuildWordRejectMap runs the full mode-5 per-word reject-map
// construction of spec §4.6 steps 1–6, in order.
func BuildWordRejectMap(w *wordres.WordResult, oracle dict.Oracle, set *wordres.Unicharset, imageWidth, imageHeight int, xHeightPixels float64) {
	FlipZeroO(w, set)
	FlipHyphens(w, set)
	RejectBlanks(w)
	if RejectSmallXHeight(w, xHeightPixels) {
		return
	}
	OneEllConflict(w, oracle, set, true)
	FlagEdgeChars(w, imageWidth, imageHeight)
	AcceptByPermuter(w, set)
}

// ComputeDoneAfterPass1 implements spec §4.6's extended "done" rule:
// done = tess_accepted AND best_choice has no space; cleared if the word
// has an unresolved 1Il conflict while not dictionary-class, OR the
// permuter is neither dictionary-class nor NUMBER.
func ComputeDoneAfterPass1(w *wordres.WordResult, oracle dict.Oracle, set *wordres.Unicharset) {
	w.ComputeDone()
	if !w.Done || w.BestChoiceRes == nil {
		return
	}
	dictClass := w.BestChoiceRes.Permuter.IsDictionaryClass()
	if OneEllConflict(w, oracle, set, false) && !dictClass {
		w.Done = false
		return
	}
	if !dictClass && w.BestChoiceRes.Permuter != wordres.Number {
		w.Done = false
	}
}

// DocQuality accumulates the document-level ratios spec §4.6 defines for
// quality-based page rejection.
type DocQuality struct {
	CharCount      int
	RejectCount    int
	BlobQuality    float64
	OutlineErrors  int
	CharQuality    float64
	GoodCharCount  int
}

// Accumulate folds one non-repeat word's stats into the document totals.
func (q *DocQuality) Accumulate(w *wordres.WordResult, blobQuality float64, outlineErrors int, charQuality float64, goodChars int) {
	if w.BestChoiceRes == nil {
		return
	}
	q.CharCount += w.BestChoiceRes.Len()
	if w.RejectMap != nil {
		q.RejectCount += w.RejectMap.RejectCount()
	}
	q.BlobQuality += blobQuality
	q.OutlineErrors += outlineErrors
	q.CharQuality += charQuality
	q.GoodCharCount += goodChars
}

// GoodQuality reports whether the accumulated document meets spec
// §4.6's "good quality" thresholds.
func (q *DocQuality) GoodQuality() bool {
	if q.CharCount == 0 {
		return true
	}
	rejPc := float64(q.RejectCount) / float64(q.CharCount)
	blobPc := q.BlobQuality / float64(q.CharCount)
	outlinePc := float64(q.OutlineErrors) / float64(q.CharCount)
	charPc := q.CharQuality / float64(q.CharCount)
	return rejPc <= QualityRejPc && blobPc >= QualityBlobPc &&
		outlinePc <= QualityOutlinePc && charPc >= QualityCharPc
}

// SuspectDowngrade implements spec §4.6's pre-output suspect-level
// downgrade. At level 0, every non-tess-failure rejection is unrejected.
// At 1–2, only characters with low reject-reason severity (not a 1Il
// conflict, not block/row/MM rejected) in a word that is dictionary-class
// or whose word-shape classifies as acceptable are unrejected; level 2 is
// strictly more permissive than level 1 in that it also unrejects
// MM_REJECT-tagged characters.
func SuspectDowngrade(w *wordres.WordResult, level int, oracle dict.Oracle, set *wordres.Unicharset) {
	if w.RejectMap == nil || w.BestChoiceRes == nil {
		return
	}
	if level <= 0 {
		for i := 0; i < w.RejectMap.Len(); i++ {
			e := w.RejectMap.At(i)
			if !e.Accepted && e.Reasons&rejectmap.TessFailure == 0 {
				w.RejectMap.Unreject(i)
			}
		}
		return
	}
	if level > 2 {
		return
	}
	dictClass := w.BestChoiceRes.Permuter.IsDictionaryClass()
	acceptableShape := oracle.AcceptableWord(w.BestChoiceRes.Unichars, set)
	for i := 0; i < w.RejectMap.Len(); i++ {
		e := w.RejectMap.At(i)
		if e.Accepted {
			continue
		}
		if e.Reasons&(rejectmap.TessFailure|rejectmap.OneIlConflict|rejectmap.BlockReject|rejectmap.RowReject) != 0 {
			continue
		}
		if level == 1 && e.Reasons&rejectmap.MMReject != 0 {
			continue
		}
		if !dictClass && acceptableShape == caseclass.Unacceptable {
			continue
		}
		w.RejectMap.Unreject(i)
	}
}

// ApplyToPage runs BuildWordRejectMap over every word of page, using
// ComputeDoneAfterPass1 for the per-word done rule — the pass-1 driver
// for spec §4.6.
func ApplyToPage(page *pageres.PageResult, oracle dict.Oracle, set *wordres.Unicharset, imageWidth, imageHeight int) {
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				BuildWordRejectMap(w, oracle, set, imageWidth, imageHeight, w.XHeight)
				ComputeDoneAfterPass1(w, oracle, set)
			}
		}
	}
}
