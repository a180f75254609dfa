package dict

import (
	"github.com/az-ai-labs/pagerec/internal/caseclass"
	"github.com/az-ai-labs/pagerec/wordres"
)

// AmbigType classifies one ambiguity table entry (spec §6).
type AmbigType int

const (
	Replace AmbigType = iota
	Definite
	CaseAmbig
	Dangerous
)

// AmbigEntry maps one wrong n-gram to its correct replacement.
type AmbigEntry struct {
	Wrong   string
	Correct string
	Type    AmbigType
}

// AmbiguityTable provides, for a character sequence, the list of known
// ambiguous replacements — a universal table merged with a per-language
// one (spec §6 "AmbiguityTable (universal + per-language)").
type AmbiguityTable struct {
	byWrong map[string][]AmbigEntry
}

// NewAmbiguityTable builds a table from entries.
func NewAmbiguityTable(entries []AmbigEntry) *AmbiguityTable {
	t := &AmbiguityTable{byWrong: make(map[string][]AmbigEntry)}
	for _, e := range entries {
		t.byWrong[e.Wrong] = append(t.byWrong[e.Wrong], e)
	}
	return t
}

// Merge returns a new table containing this table's entries plus other's,
// modeling "universal + per-language" composition. Per-language entries
// for a wrong n-gram already present in the universal table are appended,
// not replaced — a later lookup sees both.
func (t *AmbiguityTable) Merge(other *AmbiguityTable) *AmbiguityTable {
	merged := &AmbiguityTable{byWrong: make(map[string][]AmbigEntry, len(t.byWrong))}
	for k, v := range t.byWrong {
		merged.byWrong[k] = append(merged.byWrong[k], v...)
	}
	if other != nil {
		for k, v := range other.byWrong {
			merged.byWrong[k] = append(merged.byWrong[k], v...)
		}
	}
	return merged
}

// Lookup returns every ambiguity entry whose Wrong n-gram matches the text
// of ids (rendered through set).
func (t *AmbiguityTable) Lookup(ids []wordres.UnicharID, set *wordres.Unicharset) []AmbigEntry {
	return t.byWrong[Text(ids, set)]
}

// DangerousFound reports whether any of entries is type Dangerous (spec
// §6: "DANGEROUS ambigs raise dangerous_ambig_found").
func DangerousFound(entries []AmbigEntry) bool {
	for _, e := range entries {
		if e.Type == Dangerous {
			return true
		}
	}
	return false
}

// ApplyCase rewrites entry.Correct to match the case pattern observed in
// original, for CASE-type entries (spec §6 type "CASE").
func (e AmbigEntry) ApplyCase(original string) string {
	return caseclass.ApplyCase(original, e.Correct)
}
