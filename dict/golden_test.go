package dict

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

// lookupSnapshot pins a fixed oracle + ambiguity table against a fixed
// set of probe words, independent of pointer identity or map iteration
// order (the table's Lookup result order depends only on Merge's
// universal-then-per-language append order, which is deterministic).
type lookupSnapshot struct {
	ValidWord map[string]string
	Ambigs    map[string][]string
	Dangerous map[string]bool
}

func idsOf(set *wordres.Unicharset, s string) []wordres.UnicharID {
	var ids []wordres.UnicharID
	for _, r := range s {
		ids = append(ids, set.Intern(string(r)))
	}
	return ids
}

func snapshotLookups(set *wordres.Unicharset) lookupSnapshot {
	oracle := NewSortedOracle([]string{"kitab", "dev", "ev"}, nil, wordres.SystemDawg)
	universal := NewAmbiguityTable([]AmbigEntry{{Wrong: "rn", Correct: "m", Type: Replace}})
	perLang := NewAmbiguityTable([]AmbigEntry{{Wrong: "rn", Correct: "rn", Type: Dangerous}})
	merged := universal.Merge(perLang)

	snap := lookupSnapshot{
		ValidWord: map[string]string{},
		Ambigs:    map[string][]string{},
		Dangerous: map[string]bool{},
	}
	for _, w := range []string{"kitab", "EV", "xyz"} {
		snap.ValidWord[w] = oracle.ValidWord(idsOf(set, w), set).String()
	}
	for _, w := range []string{"rn", "xy"} {
		entries := merged.Lookup(idsOf(set, w), set)
		for _, e := range entries {
			snap.Ambigs[w] = append(snap.Ambigs[w], e.Correct+"/"+e.Type.string())
		}
		snap.Dangerous[w] = DangerousFound(entries)
	}
	return snap
}

func (t AmbigType) string() string {
	switch t {
	case Replace:
		return "REPLACE"
	case Definite:
		return "DEFINITE"
	case CaseAmbig:
		return "CASE"
	case Dangerous:
		return "DANGEROUS"
	default:
		return "UNKNOWN"
	}
}

func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// TestLookupSnapshotMatchesGolden pins SortedOracle.ValidWord and the
// merged AmbiguityTable's Lookup/DangerousFound results against a
// checked-in fixture. Run with -update to regenerate after an
// intentional change to the lookup rules.
func TestLookupSnapshotMatchesGolden(t *testing.T) {
	set := wordres.NewUnicharset()
	got := snapshotLookups(set)

	path := goldenPath("lookup_basic")
	if *update {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		data, err := json.MarshalIndent(got, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err, "missing golden file, run with -update to create it")
	var want lookupSnapshot
	require.NoError(t, json.Unmarshal(data, &want))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lookup snapshot mismatch (-want +got):\n%s", diff)
	}
}
