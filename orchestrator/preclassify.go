package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/az-ai-labs/pagerec/classify"
	"github.com/az-ai-labs/pagerec/pageres"
	"github.com/az-ai-labs/pagerec/wordres"
)

// maxParallelWords bounds the pre-classification errgroup, matching spec
// §5's "bounded data-parallel pre-classification stage".
const maxParallelWords = 8

// preclassifyBlobs implements spec §5's optional bounded data-parallel
// pre-classification stage: before pass 1's sequential loop reads a
// word's ratings matrix, every blob of every word is classified in
// isolation and deposited into that word's own matrix. Parallelism is
// bounded at word granularity — distinct words' matrices are disjoint
// maps, so concurrent writers never touch the same map, satisfying
// spec's "no cell is written more than once" without needing a lock
// inside RatingsMatrix itself. Blobs within one word are classified
// serially by that word's single goroutine.
func preclassifyBlobs(ctx *PassContext, page *pageres.PageResult) error {
	if ctx.Legacy == nil {
		return nil
	}
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxParallelWords)

	for _, block := range page.Blocks {
		for _, row := range block.Rows {
			for _, w := range row.Words {
				w := w
				g.Go(func() error {
					preclassifyWord(ctx.Legacy, w)
					return nil
				})
			}
		}
	}
	return g.Wait()
}

func preclassifyWord(legacy classify.LegacyClassifier, w *wordres.WordResult) {
	if w.TessFailed || w.Ratings == nil {
		return
	}
	for i, blob := range w.Chopped {
		candidates := legacy.ClassifyBlob(blob)
		if candidates != nil {
			w.Ratings.Put(i, i, candidates)
		}
	}
}
