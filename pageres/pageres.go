// Package pageres implements PageResult and its reading-order Iterator
// (spec.md §3 "PageResult"). It depends on wordres.
package pageres

import "github.com/az-ai-labs/pagerec/wordres"

// Row is an ordered sequence of Words sharing a text line.
type Row struct {
	Words    []*wordres.WordResult
	Baseline float64
	RTL      bool // right-to-left script: words iterate right-to-left within the row
}

// Block is an ordered sequence of Rows sharing a layout region.
type Block struct {
	Rows []*Row
}

// PageResult is the ordered sequence of Blocks produced by layout analysis
// and mutated in place by the six recognition passes (spec.md §3, §9:
// "Represent a Word by a (block_index, row_index, word_index) identifier").
type PageResult struct {
	Blocks []*Block
}

// New returns an empty page.
func New() *PageResult { return &PageResult{} }

// WordCount returns the total number of words across every block and row.
func (p *PageResult) WordCount() int {
	n := 0
	for _, b := range p.Blocks {
		for _, r := range b.Rows {
			n += len(r.Words)
		}
	}
	return n
}
