package pageres

import (
	"testing"

	"github.com/az-ai-labs/pagerec/wordres"
)

func wordWithText(s string) *wordres.WordResult {
	w := wordres.New(nil)
	bc := &wordres.BestChoice{}
	for range s {
		bc.Unichars = append(bc.Unichars, wordres.UnicharID(1))
		bc.PerCharRating = append(bc.PerCharRating, 1)
		bc.PerCharCert = append(bc.PerCharCert, -1)
	}
	w.SetBestChoice(bc, nil)
	return w
}

func twoByTwoPage() *PageResult {
	p := New()
	for b := 0; b < 2; b++ {
		block := &Block{}
		for r := 0; r < 2; r++ {
			row := &Row{}
			for w := 0; w < 2; w++ {
				row.Words = append(row.Words, wordWithText("x"))
			}
			block.Rows = append(block.Rows, row)
		}
		p.Blocks = append(p.Blocks, block)
	}
	return p
}

func TestIteratorWalksReadingOrder(t *testing.T) {
	t.Parallel()
	p := twoByTwoPage()
	it := NewIterator(p)

	count := 0
	for !it.AtEnd() {
		if it.Word() == nil {
			t.Fatal("Word() must be non-nil while valid")
		}
		count++
		it.Forward()
	}
	if count != p.WordCount() {
		t.Fatalf("iterated %d words, want %d", count, p.WordCount())
	}
	if it.Word() != nil {
		t.Fatal("Word() should be nil at end-of-page")
	}
}

func TestIteratorEmptyPage(t *testing.T) {
	t.Parallel()
	it := NewIterator(New())
	if !it.AtEnd() {
		t.Fatal("empty page should start at end")
	}
	if it.Forward() {
		t.Fatal("Forward on empty page must stay at end")
	}
}

func TestNextWordDoesNotMove(t *testing.T) {
	t.Parallel()
	p := twoByTwoPage()
	it := NewIterator(p)
	first := it.Word()
	next := it.NextWord()
	if it.Word() != first {
		t.Fatal("NextWord must not move the iterator")
	}
	if next == first {
		t.Fatal("NextWord must return a different word from the current one")
	}
}

func TestDeleteCurrentWordStaysValid(t *testing.T) {
	t.Parallel()
	p := New()
	block := &Block{}
	row := &Row{Words: []*wordres.WordResult{wordWithText("a"), wordWithText("b")}}
	block.Rows = append(block.Rows, row)
	p.Blocks = append(p.Blocks, block)

	it := NewIterator(p)
	first := it.Word()
	it.DeleteCurrentWord()
	if it.AtEnd() {
		t.Fatal("expected second word still present")
	}
	if it.Word() == first {
		t.Fatal("expected cursor to land on the remaining word")
	}

	it.DeleteCurrentWord()
	if !it.AtEnd() {
		t.Fatal("expected end-of-page after deleting the last word")
	}
}

func TestReplaceCurrentWordWithSequence(t *testing.T) {
	t.Parallel()
	p := New()
	block := &Block{}
	row := &Row{Words: []*wordres.WordResult{wordWithText("ab"), wordWithText("c")}}
	block.Rows = append(block.Rows, row)
	p.Blocks = append(p.Blocks, block)

	it := NewIterator(p)
	it.ReplaceCurrentWord([]*wordres.WordResult{wordWithText("a"), wordWithText("b")})
	if it.AtEnd() {
		t.Fatal("expected a word present after replace")
	}
	if len(row.Words) != 3 {
		t.Fatalf("expected 3 words after split replace, got %d", len(row.Words))
	}
}

func TestIteratorSkipsPartOfComboWords(t *testing.T) {
	t.Parallel()
	p := New()
	block := &Block{}
	source := wordWithText("a")
	source.PartOfCombo = true
	combo := wordWithText("ab")
	combo.Combination = true
	row := &Row{Words: []*wordres.WordResult{combo, source, wordWithText("c")}}
	block.Rows = append(block.Rows, row)
	p.Blocks = append(p.Blocks, block)

	it := NewIterator(p)
	if it.Word() != combo {
		t.Fatal("expected the combination word first")
	}
	it.Forward()
	if it.Word() != row.Words[2] {
		t.Fatal("expected the part_of_combo source skipped over")
	}
	if it.Forward() {
		t.Fatal("expected end-of-page after the one remaining word")
	}
}

func TestPrevBlockPrevRow(t *testing.T) {
	t.Parallel()
	p := twoByTwoPage()
	it := NewIterator(p)
	if it.PrevBlock() != nil {
		t.Fatal("first word should have no previous block")
	}
	// advance past all of the first block's words into the second block
	for i := 0; i < 4; i++ {
		it.Forward()
	}
	if it.PrevBlock() == nil {
		t.Fatal("expected a previous block once past the first block's rows")
	}
}
