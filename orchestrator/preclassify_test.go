package orchestrator

import (
	"sync/atomic"
	"testing"

	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/wordres"
)

type countingLegacy struct {
	calls int64
}

func (c *countingLegacy) ClassifyWord(word *wordres.WordResult) (*wordres.BestChoice, []*wordres.BestChoice, bool, bool) {
	return nil, nil, false, false
}

func (c *countingLegacy) ClassifyBlob(blob wordres.Blob) []wordres.Candidate {
	atomic.AddInt64(&c.calls, 1)
	return []wordres.Candidate{{Unichar: wordres.UnicharID(blob.ID), Rating: 1, Certainty: -1}}
}

func manyWordPage(wordCount, blobsPerWord int) *pageres.PageResult {
	page := pageres.New()
	block := &pageres.Block{}
	row := &pageres.Row{}
	for i := 0; i < wordCount; i++ {
		blobs := make([]wordres.Blob, blobsPerWord)
		for j := range blobs {
			blobs[j] = wordres.Blob{ID: j}
		}
		row.Words = append(row.Words, wordres.New(blobs))
	}
	block.Rows = append(block.Rows, row)
	page.Blocks = append(page.Blocks, block)
	return page
}

func TestPreclassifyBlobsFillsEveryWordsRatingsMatrix(t *testing.T) {
	t.Parallel()
	page := manyWordPage(20, 3)
	legacy := &countingLegacy{}
	ctx := &PassContext{Legacy: legacy}

	if err := preclassifyBlobs(ctx, page); err != nil {
		t.Fatalf("preclassifyBlobs failed: %v", err)
	}
	if got := atomic.LoadInt64(&legacy.calls); got != 60 {
		t.Fatalf("expected 60 ClassifyBlob calls (20 words * 3 blobs), got %d", got)
	}
	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				for i := range w.Chopped {
					if _, ok := w.Ratings.Best(i, i); !ok {
						t.Fatalf("expected ratings matrix cell (%d,%d) populated", i, i)
					}
				}
			}
		}
	}
}

func TestPreclassifyBlobsSkipsFailedWords(t *testing.T) {
	t.Parallel()
	page := manyWordPage(1, 2)
	w := page.Blocks[0].Rows[0].Words[0]
	w.MarkFailed()
	legacy := &countingLegacy{}
	ctx := &PassContext{Legacy: legacy}

	if err := preclassifyBlobs(ctx, page); err != nil {
		t.Fatalf("preclassifyBlobs failed: %v", err)
	}
	if got := atomic.LoadInt64(&legacy.calls); got != 0 {
		t.Fatalf("expected no ClassifyBlob calls for a failed word, got %d", got)
	}
}

func TestPreclassifyBlobsNilLegacyIsNoop(t *testing.T) {
	t.Parallel()
	page := manyWordPage(2, 2)
	ctx := &PassContext{}
	if err := preclassifyBlobs(ctx, page); err != nil {
		t.Fatalf("expected nil-legacy preclassify to be a no-op, got: %v", err)
	}
}
