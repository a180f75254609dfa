// Package orchestrator implements the Pass Orchestrator (spec.md §4.1)
// and PassContext (§9): the six-pass driver over a PageResult, threading
// per-page state explicitly rather than through a singleton controller
// (spec §9 "Global mutable recognition state ... Model these as an
// explicit PassContext value that is threaded through the pass
// orchestrator"). It depends on every other package in this module.
package orchestrator

import (
	"go.uber.org/zap"

	"github.com/az-ai-labs/pagerec/bigram"
	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/diacritic"
	"github.com/az-ai-labs/pagerec/dict"
	"github.com/az-ai-labs/pagerec/dispatch"
	"github.com/az-ai-labs/pagerec/fuzzyspace"
	"github.com/az-ai-labs/pagerec/monitor"
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/reject"
	"github.com/az-ai-labs/pagerec/wordres"
)

// DoPasses selects which passes recognize_all_words runs (spec §4.1).
type DoPasses int

const (
	AllPasses DoPasses = iota
	Just1
	From2
)

// PassContext is the explicit per-page state spec §9 calls for in place
// of the legacy controller's singleton statistics accumulator and
// most-recently-used language pointer: the MRU pointer lives inside
// Dispatcher (itself a plain value, not a package-level global), and
// everything else a pass needs is named here and passed by the caller.
type PassContext struct {
	Dispatcher    *dispatch.Dispatcher
	Legacy        classify.LegacyClassifier
	Image         classify.ImageProvider
	Oracle        dict.Oracle
	DocumentDict  *dict.DocumentDict
	Ambigs        *dict.AmbiguityTable // universal+per-language merged table (spec §6); nil disables the check
	Set           *wordres.Unicharset
	AdaptiveSlots []*classify.AdaptiveSlot // index 0 = primary language, 1..n = sub-languages

	FuzzyspaceMode  int
	PunctBonus      bool
	PunctBonusSet   map[byte]bool
	RejectionMode   int // currently only mode 5 (the full pipeline) is implemented; see reject.BuildWordRejectMap
	ImageWidth      int
	ImageHeight     int
	CertaintyThresh float32 // passed to diacritic.Reassign, which does not read it; step 2 uses diacritic.NoiseCertBasechar
	DocQuality      *reject.DocQuality

	Parallel bool        // enable the bounded data-parallel pre-classification stage (spec §5)
	Log      *zap.Logger // nil-safe; defaults to a no-op logger
}

func (ctx *PassContext) logger() *zap.Logger {
	if ctx.Log == nil {
		return zap.NewNop()
	}
	return ctx.Log
}

// RecognizeAllWords implements spec §4.1's recognize_all_words: drives
// the selected passes over page, returning false if cancelled partway
// through (in which case remaining words have been faked per spec §4.1
// "Cancellation semantics").
func RecognizeAllWords(ctx *PassContext, page *pageres.PageResult, mon monitor.Monitor, dopasses DoPasses) bool {
	start, end := 1, 6
	switch dopasses {
	case Just1:
		end = 1
	case From2:
		start = 2
	}
	log := ctx.logger()
	log.Debug("recognize_all_words starting", zap.Int("pass_start", start), zap.Int("pass_end", end), zap.Int("words", page.WordCount()))

	if start == 1 && ctx.Parallel {
		if err := preclassifyBlobs(ctx, page); err != nil {
			log.Warn("parallel pre-classification failed", zap.Error(err))
		}
	}

	for pass := start; pass <= end; pass++ {
		log.Debug("pass starting", zap.Int("pass", pass))
		setupAllWordsPassN(pass, page)
		if !recogAllWordsPassN(ctx, pass, page, mon) {
			log.Warn("pass cancelled", zap.Int("pass", pass))
			return false
		}
		runPostPassHook(ctx, pass, page)
	}
	return true
}

// setupAllWordsPassN implements spec §4.1's setup_all_words_pass_n:
// pre-initialize every word's per-pass data. tess_failed words are still
// set up but never dispatched (recogAllWordsPassN skips them).
func setupAllWordsPassN(pass int, page *pageres.PageResult) {
	if pass != 1 {
		return
	}
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				if w.Ratings == nil {
					w.Ratings = wordres.NewRatingsMatrix(w.NumBlobs())
				}
			}
		}
	}
}

// progressFor scales a word index within pass 1 (0-70%) or pass 2
// (70-100%) per spec §4.1; later passes hold at 100%.
func progressFor(pass, wordIdx, totalWords int) int {
	frac := 0.0
	if totalWords > 0 {
		frac = float64(wordIdx) / float64(totalWords)
	}
	switch pass {
	case 1:
		return int(frac * 70)
	case 2:
		return 70 + int(frac*30)
	default:
		return 100
	}
}

// recogAllWordsPassN implements spec §4.1's recog_all_words_pass_n: the
// per-word loop common to every pass, with pass-specific dispatch.
func recogAllWordsPassN(ctx *PassContext, pass int, page *pageres.PageResult, mon monitor.Monitor) bool {
	total := page.WordCount()
	idx := 0
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			i := 0
			for i < len(row.Words) {
				w := row.Words[i]

				if mon != nil {
					mon.SetAlive()
					mon.SetProgress(progressFor(pass, idx, total))
					if mon.DeadlineExceeded() || mon.CancelRequested() {
						fakeRemaining(page)
						return false
					}
					mon.ReportProgress(monitor.Box{X0: w.BBox.X0, Y0: w.BBox.Y0, X1: w.BBox.X1, Y1: w.BBox.Y1})
				}
				idx++

				if w.TessFailed {
					i++
					continue
				}
				if w.PartOfCombo {
					// Retained by fuzzy-space for spec §3 property S2; iterated
					// over but excluded from further per-word processing.
					i++
					continue
				}

				switch pass {
				case 1:
					i = processPass1Word(ctx, row, i)
				case 2:
					if !w.Done {
						dispatch.RunPass2(w, ctx.Legacy)
					}
					i++
				case 4:
					reject.BuildWordRejectMap(w, ctx.Oracle, ctx.Set, ctx.ImageWidth, ctx.ImageHeight, w.XHeight)
					reject.ComputeDoneAfterPass1(w, ctx.Oracle, ctx.Set)
					i++
				case 6:
					dispatch.FixScriptPosition(w)
					w.Blamer.Record("pass6: blame+script-position")
					i++
				default:
					i++
				}
			}
		}
	}
	return true
}

// processPass1Word implements spec §4.1 step 2 d–f for pass 1: attempt
// diacritic reassignment, dispatch multi-language recognition, and apply
// the pass-1 post-dispatch side effects (tess_would_adapt / adaptive
// training / document-dictionary add, spec §4.2). Returns the next index
// to resume the row loop at (the dispatch may splice a different number
// of words into row.Words).
func processPass1Word(ctx *PassContext, row *pageres.Row, i int) int {
	w := row.Words[i]

	if ctx.Legacy != nil {
		res := diacritic.Reassign(w, ctx.Legacy, ctx.CertaintyThresh)
		if res.Placed > 0 {
			w.Ratings = wordres.NewRatingsMatrix(w.NumBlobs())
			if res.ExtendedRight && i+1 < len(row.Words) {
				row.Words[i+1].Fuzzy = true
			}
		}
	}

	result := ctx.Dispatcher.ClassifyWordAndLanguage(w, ctx.Image)
	row.Words = spliceWords(row.Words, i, result)

	for _, out := range result {
		if out.TessFailed {
			ctx.logger().Debug("word failed classification in pass 1")
		}
		markDangerousAmbig(ctx, out)
		applyPass1PostDispatch(ctx, out)
	}
	return i + len(result)
}

// markDangerousAmbig implements spec §6's AmbiguityTable consumption: a
// DANGEROUS entry matching the word's recognized text sets
// BestChoiceRes.DangerousAmbig, which gates document-dictionary
// adaptation in applyPass1PostDispatch per spec §4.2 "if adaptable and
// not ambiguous".
func markDangerousAmbig(ctx *PassContext, w *wordres.WordResult) {
	if ctx.Ambigs == nil || w.BestChoiceRes == nil {
		return
	}
	entries := ctx.Ambigs.Lookup(w.BestChoiceRes.Unichars, ctx.Set)
	if dict.DangerousFound(entries) {
		w.BestChoiceRes.DangerousAmbig = true
	}
}

func spliceWords(words []*wordres.WordResult, i int, replacement []*wordres.WordResult) []*wordres.WordResult {
	out := make([]*wordres.WordResult, 0, len(words)-1+len(replacement))
	out = append(out, words[:i]...)
	out = append(out, replacement...)
	out = append(out, words[i+1:]...)
	return out
}

// applyPass1PostDispatch implements spec §4.2 "After pass 1 on a word":
// document-dictionary augmentation and adaptive training for accepted,
// unambiguous, dictionary-class words.
func applyPass1PostDispatch(ctx *PassContext, w *wordres.WordResult) {
	if w.BestChoiceRes == nil {
		return
	}
	if w.TessWouldAdapt && !w.BestChoiceRes.DangerousAmbig && w.BestChoiceRes.Permuter.IsDictionaryClass() {
		if ctx.DocumentDict != nil {
			ctx.DocumentDict.AddDocumentWord(w.BestChoiceRes.Unichars, ctx.Set)
		}
	}
	if w.TessAccepted && len(ctx.AdaptiveSlots) > 0 {
		slot := ctx.AdaptiveSlots[0]
		if w.LanguageIdx >= 0 && w.LanguageIdx < len(ctx.AdaptiveSlots) {
			slot = ctx.AdaptiveSlots[w.LanguageIdx]
		}
		slot.Train()
	}
}

func fakeRemaining(page *pageres.PageResult) {
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				if !w.Done && !w.TessFailed {
					w.MarkFailed()
				}
			}
		}
	}
}

// runPostPassHook implements spec §4.1 step 3's whole-page hooks.
func runPostPassHook(ctx *PassContext, pass int, page *pageres.PageResult) {
	switch pass {
	case 1:
		for _, block := range page.Blocks {
			for _, row := range block.Rows {
				HarmonizeLeaders(row)
			}
		}
		if len(ctx.AdaptiveSlots) > 0 {
			for _, slot := range ctx.AdaptiveSlots {
				slot.RotateBetweenPages()
			}
		}
	case 2:
		if ctx.FuzzyspaceMode > 0 {
			fuzzyspace.FixFuzzySpaces(page, ctx.Legacy, ctx.Set, ctx.FuzzyspaceMode, ctx.PunctBonus, ctx.PunctBonusSet)
		}
	case 3:
		for _, block := range page.Blocks {
			for _, row := range block.Rows {
				words := activeWords(row.Words)
				for i := 0; i+1 < len(words); i++ {
					bigram.Correct(words[i], words[i+1], ctx.Oracle, ctx.Set)
				}
			}
		}
	case 4:
		if ctx.DocQuality != nil {
			for _, block := range page.Blocks {
				for _, row := range block.Rows {
					for _, w := range activeWords(row.Words) {
						if isRepeatCharWord(w) {
							continue
						}
						ctx.DocQuality.Accumulate(w, 0, 0, float64(w.BestChoiceRes.Len()-w.RejectMap.RejectCount()), w.BestChoiceRes.Len()-w.RejectMap.RejectCount())
					}
				}
			}
			if !ctx.DocQuality.GoodQuality() {
				for _, block := range page.Blocks {
					for _, row := range block.Rows {
						for _, w := range activeWords(row.Words) {
							reject.SuspectDowngrade(w, 2, ctx.Oracle, ctx.Set)
						}
					}
				}
			}
		}
	}
}

// activeWords filters out words fuzzy-space retained only for part_of_combo
// bookkeeping (spec §3 property S2): passes that reason about word
// adjacency or accumulate whole-page statistics iterate this view so
// retained combination sources are walked but excluded from the result.
func activeWords(words []*wordres.WordResult) []*wordres.WordResult {
	out := make([]*wordres.WordResult, 0, len(words))
	for _, w := range words {
		if !w.PartOfCombo {
			out = append(out, w)
		}
	}
	return out
}

func isRepeatCharWord(w *wordres.WordResult) bool {
	if w.BestChoiceRes == nil || w.BestChoiceRes.Len() < 2 {
		return false
	}
	first := w.BestChoiceRes.Unichars[0]
	for _, u := range w.BestChoiceRes.Unichars[1:] {
		if u != first {
			return false
		}
	}
	return true
}
