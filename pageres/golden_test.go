package pageres

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/pagerec/wordres"
)

var update = flag.Bool("update", false, "update golden files")

// readingOrderSnapshot captures the text of every word an Iterator walk
// visits, in visit order — a stable, structural view of a page's reading
// order independent of pointer identity.
type readingOrderSnapshot struct {
	Words []string
}

func snapshotReadingOrder(p *PageResult, set *wordres.Unicharset) readingOrderSnapshot {
	var snap readingOrderSnapshot
	it := NewIterator(p)
	for !it.AtEnd() {
		w := it.Word()
		text := ""
		if w.BestChoiceRes != nil {
			text = w.BestChoiceRes.Text(set)
		}
		snap.Words = append(snap.Words, text)
		it.Forward()
	}
	return snap
}

func wordWithChoice(set *wordres.Unicharset, s string) *wordres.WordResult {
	w := wordres.New(nil)
	bc := &wordres.BestChoice{Permuter: wordres.NoPerm}
	for _, r := range s {
		bc.Unichars = append(bc.Unichars, set.Intern(string(r)))
		bc.PerCharRating = append(bc.PerCharRating, 1)
		bc.PerCharCert = append(bc.PerCharCert, -1)
	}
	w.SetBestChoice(bc, nil)
	return w
}

func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// TestReadingOrderSnapshotMatchesGolden pins the Iterator's reading-order
// walk against a checked-in fixture, diffed structurally with cmp rather
// than a byte-for-byte comparison. Run with -update to regenerate the
// fixture after an intentional reading-order change.
func TestReadingOrderSnapshotMatchesGolden(t *testing.T) {
	set := wordres.NewUnicharset()
	page := New()
	block := &Block{}
	row1 := &Row{Words: []*wordres.WordResult{wordWithChoice(set, "the"), wordWithChoice(set, "cat")}}
	row2 := &Row{Words: []*wordres.WordResult{wordWithChoice(set, "sat")}}
	block.Rows = append(block.Rows, row1, row2)
	page.Blocks = append(page.Blocks, block)

	got := snapshotReadingOrder(page, set)

	path := goldenPath("reading_order_basic")
	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		data, err := json.MarshalIndent(got, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file, run with -update to create it")
	var want readingOrderSnapshot
	require.NoError(t, json.Unmarshal(data, &want))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("reading order snapshot mismatch (-want +got):\n%s", diff)
	}
}
