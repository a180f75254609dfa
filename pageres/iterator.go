package pageres

import "github.com/az-ai-labs/pagerec/wordres"

// Iterator is a cursor value into a PageResult — a (block, row, word)
// index triple, not a pointer network (spec §9: "the iterator is a
// cursor value into the PageResult"). Invariant: after every mutating
// method, the iterator is either valid at a Word or at end-of-page
// (spec §3).
type Iterator struct {
	page              *PageResult
	blockIdx, rowIdx, wordIdx int
	atEnd             bool
}

// NewIterator returns an iterator positioned at the page's first word,
// or at end-of-page if the page has no words.
func NewIterator(p *PageResult) *Iterator {
	it := &Iterator{page: p}
	it.RestartPage()
	return it
}

// RestartPage repositions the iterator at the first word of the page.
func (it *Iterator) RestartPage() {
	it.blockIdx, it.rowIdx, it.wordIdx = 0, 0, 0
	it.atEnd = false
	it.settle()
}

// settle advances past any empty blocks/rows, and past words fuzzy-space
// retained only as part_of_combo bookkeeping (spec §3 property S2), so
// the cursor lands on a real output word or end-of-page.
func (it *Iterator) settle() {
	for {
		if it.blockIdx >= len(it.page.Blocks) {
			it.atEnd = true
			return
		}
		block := it.page.Blocks[it.blockIdx]
		if it.rowIdx >= len(block.Rows) {
			it.blockIdx++
			it.rowIdx, it.wordIdx = 0, 0
			continue
		}
		row := block.Rows[it.rowIdx]
		if it.wordIdx >= len(row.Words) {
			it.rowIdx++
			it.wordIdx = 0
			continue
		}
		if row.Words[it.wordIdx].PartOfCombo {
			it.wordIdx++
			continue
		}
		it.atEnd = false
		return
	}
}

// AtEnd reports whether the iterator has advanced past the last word.
func (it *Iterator) AtEnd() bool { return it.atEnd }

// Block returns the current block, or nil at end-of-page.
func (it *Iterator) Block() *Block {
	if it.atEnd {
		return nil
	}
	return it.page.Blocks[it.blockIdx]
}

// Row returns the current row, or nil at end-of-page.
func (it *Iterator) Row() *Row {
	if it.atEnd {
		return nil
	}
	return it.page.Blocks[it.blockIdx].Rows[it.rowIdx]
}

// Word returns the current word, or nil at end-of-page.
func (it *Iterator) Word() *wordres.WordResult {
	if it.atEnd {
		return nil
	}
	return it.Row().Words[it.wordIdx]
}

// PrevBlock returns the block preceding the current one, or nil if the
// current block is the first (spec §3 "prev_block()").
func (it *Iterator) PrevBlock() *Block {
	if it.blockIdx == 0 || it.blockIdx > len(it.page.Blocks) {
		return nil
	}
	idx := it.blockIdx
	if it.atEnd {
		idx = len(it.page.Blocks)
	}
	if idx == 0 {
		return nil
	}
	return it.page.Blocks[idx-1]
}

// PrevRow returns the row preceding the current one within the current
// block, or the last row of the previous block if the current row is
// the first in its block (spec §3 "prev_row()").
func (it *Iterator) PrevRow() *Row {
	if it.atEnd {
		if len(it.page.Blocks) == 0 {
			return nil
		}
		last := it.page.Blocks[len(it.page.Blocks)-1]
		if len(last.Rows) == 0 {
			return nil
		}
		return last.Rows[len(last.Rows)-1]
	}
	if it.rowIdx > 0 {
		return it.page.Blocks[it.blockIdx].Rows[it.rowIdx-1]
	}
	pb := it.PrevBlock()
	if pb == nil || len(pb.Rows) == 0 {
		return nil
	}
	return pb.Rows[len(pb.Rows)-1]
}

// NextWord returns the word following the current one in reading order,
// without moving the iterator, or nil if none remains.
func (it *Iterator) NextWord() *wordres.WordResult {
	if it.atEnd {
		return nil
	}
	peek := *it
	peek.wordIdx++
	peek.settle()
	if peek.atEnd {
		return nil
	}
	return peek.Word()
}

// Forward advances the iterator to the next word in reading order,
// crossing row and block boundaries as needed. Returns true if the
// iterator now sits on a real word, false if it reached end-of-page.
func (it *Iterator) Forward() bool {
	if it.atEnd {
		return false
	}
	it.wordIdx++
	it.settle()
	return !it.atEnd
}

// MakeCurrentWordFuzzy marks the current word's left boundary uncertain,
// so the fuzzy-space resolver reconsiders it (spec §4.1 step d, §4.3
// step 5). No-op at end-of-page.
func (it *Iterator) MakeCurrentWordFuzzy() {
	if w := it.Word(); w != nil {
		w.Fuzzy = true
	}
}

// DeleteCurrentWord removes the current word from the page. The iterator
// settles on the following word, or end-of-page if none remains (spec §3
// invariant).
func (it *Iterator) DeleteCurrentWord() {
	if it.atEnd {
		return
	}
	row := it.Row()
	row.Words = append(row.Words[:it.wordIdx], row.Words[it.wordIdx+1:]...)
	it.settle()
}

// ReplaceCurrentWord replaces the current word with seq, a sequence of
// zero or more words, leaving the iterator positioned at the first
// replacement word (or settled past it if seq is empty). Used when the
// sequence engine emits multiple words for one input word (spec §4.2:
// "replaces the current iterator position with the sequence").
func (it *Iterator) ReplaceCurrentWord(seq []*wordres.WordResult) {
	if it.atEnd {
		return
	}
	row := it.Row()
	tail := append([]*wordres.WordResult{}, row.Words[it.wordIdx+1:]...)
	row.Words = append(row.Words[:it.wordIdx], seq...)
	row.Words = append(row.Words, tail...)
	it.settle()
}

// Clone returns an independent copy of the iterator's cursor position
// (not the underlying page).
func (it *Iterator) Clone() *Iterator {
	c := *it
	return &c
}
