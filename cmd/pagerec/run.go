package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/dict"
	"github.com/az-ai-labs/pagerec/dispatch"
	"github.com/az-ai-labs/pagerec/orchestrator"
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/reject"
	"github.com/az-ai-labs/pagerec/wordres"
)

// fixture is the JSON shape a demo page is loaded from: one row per
// line of text, one word per string, the word's stub-classified text
// supplied directly since this driver has no real image pipeline.
type fixture struct {
	Rows [][]string `json:"rows"`
}

func newRunCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run <fixture.json>",
		Short: "Run recognize_all_words over a JSON page fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixture(args[0], *verbose)
		},
	}
}

func runFixture(path string, verbose bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("pagerec: reading fixture: %w", err)
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("pagerec: parsing fixture: %w", err)
	}

	set := wordres.NewUnicharset()
	legacy := newStubClassifier(set)
	page := buildPage(&fx, legacy)

	log := newLogger(verbose)
	defer func() { _ = log.Sync() }()

	eng := &dispatch.Engine{Name: "stub", Classifier: &classify.Classifier{Legacy: legacy}, Mode: classify.ModeLegacyOnly}
	ctx := &orchestrator.PassContext{
		Dispatcher:   dispatch.NewDispatcher(eng, nil),
		Legacy:       legacy,
		Oracle:       dict.NewDocumentDict(),
		DocumentDict: dict.NewDocumentDict(),
		Ambigs:       dict.NewAmbiguityTable(nil),
		Set:          set,
		ImageWidth:   10000,
		ImageHeight:  10000,
		DocQuality:   &reject.DocQuality{},
		Log:          log,
	}

	if !orchestrator.RecognizeAllWords(ctx, page, nil, orchestrator.AllPasses) {
		return fmt.Errorf("pagerec: recognition did not complete")
	}

	printSummary(page, set)
	return nil
}

func buildPage(fx *fixture, legacy *stubClassifier) *pageres.PageResult {
	page := pageres.New()
	block := &pageres.Block{}
	for _, wordStrings := range fx.Rows {
		row := &pageres.Row{}
		for _, s := range wordStrings {
			row.Words = append(row.Words, newStubWord(s, legacy))
		}
		block.Rows = append(block.Rows, row)
	}
	page.Blocks = append(page.Blocks, block)
	return page
}

func newStubWord(s string, legacy *stubClassifier) *wordres.WordResult {
	blobs := make([]wordres.Blob, len(s))
	for i := range s {
		blobs[i] = wordres.Blob{ID: i, Box: wordres.Box{X0: float64(i) * 10, X1: float64(i)*10 + 8, Y0: 0, Y1: 12}}
	}
	w := wordres.New(blobs)
	w.XHeight = 10
	legacy.register(w, s)
	return w
}

func printSummary(page *pageres.PageResult, set *wordres.Unicharset) {
	total, done, rejected := 0, 0, 0
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				if w.PartOfCombo {
					continue
				}
				total++
				if w.Done {
					done++
				}
				if w.RejectMap != nil {
					rejected += w.RejectMap.RejectCount()
				}
				text := ""
				if w.BestChoiceRes != nil {
					text = w.BestChoiceRes.Text(set)
				}
				fmt.Printf("%-20s done=%-5v rejected_chars=%d\n", text, w.Done, rejectCountOf(w))
			}
		}
	}
	fmt.Printf("\n%d words, %d done, %d rejected characters\n", total, done, rejected)
}

func rejectCountOf(w *wordres.WordResult) int {
	if w.RejectMap == nil {
		return 0
	}
	return w.RejectMap.RejectCount()
}
