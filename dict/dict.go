// Package dict implements the DictionaryOracle and AmbiguityTable external
// collaborators (spec.md §6), plus a concrete sorted-slice Oracle and the
// in-page DocumentDict (spec §4.2, §5, GLOSSARY "Document dictionary").
//
// The sorted-slice-plus-binary-search shape of SortedOracle is adapted
// from the teacher's morph/dict.go, which parses a go:embed'd word list
// into a sorted []string once at init and resolves membership with
// sort.SearchStrings — the same technique, generalized from a single
// fixed Azerbaijani lemma list to an arbitrary word list supplied by the
// caller (since the real unicharset/DAWG data is an external collaborator
// here, not a fixed embedded asset).
package dict

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/pagerec/internal/caseclass"
	"github.com/az-ai-labs/pagerec/wordres"
)

// Text renders a unichar sequence as a plain string via set, NFC-normalized
// so a base-char-plus-combining-mark decomposition and its precomposed
// equivalent compare equal in dictionary lookups and document-dictionary
// keys (the unicharset is built incrementally from classifier output and
// has no guarantee either form is used consistently). Shared by every
// Oracle implementation in this package, which need to turn best_choice
// sequences back into comparable text.
func Text(ids []wordres.UnicharID, set *wordres.Unicharset) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(set.String(id))
	}
	return norm.NFC.String(b.String())
}

// Oracle is the DictionaryOracle external collaborator (spec §6).
type Oracle interface {
	// ValidWord returns the permuter tag that accepts choice, or NoPerm
	// if no dictionary validates it (spec: "valid_word(choice) ->
	// permuter_tag or 0").
	ValidWord(ids []wordres.UnicharID, set *wordres.Unicharset) wordres.Permuter
	// ValidBigram reports whether the ordered pair (w1, w2) is a valid
	// bigram.
	ValidBigram(w1, w2 []wordres.UnicharID, set *wordres.Unicharset) bool
	// AddDocumentWord augments the in-page document dictionary.
	AddDocumentWord(ids []wordres.UnicharID, set *wordres.Unicharset)
	// AcceptableWord classifies the case pattern of choice (spec:
	// "acceptable_word(choice) -> {UNACCEPTABLE, LOWER_CASE, ...}").
	AcceptableWord(ids []wordres.UnicharID, set *wordres.Unicharset) caseclass.Class
}

// SortedOracle is a concrete Oracle backed by a sorted word list and a
// per-word frequency, resolved by binary search — the teacher's
// dict.go technique applied to an arbitrary supplied lexicon. All
// matches report the same permuter (callers compose several SortedOracle
// instances, one per DAWG kind, via Multi).
type SortedOracle struct {
	words    []string
	freq     []int64
	permuter wordres.Permuter
	bigrams  map[[2]string]bool
}

// NewSortedOracle builds a SortedOracle from words (deduplicated and
// sorted internally) reporting permuter for every valid_word hit.
func NewSortedOracle(words []string, freq []int64, permuter wordres.Permuter) *SortedOracle {
	type pair struct {
		w string
		f int64
	}
	pairs := make([]pair, len(words))
	for i, w := range words {
		f := int64(1)
		if i < len(freq) {
			f = freq[i]
		}
		pairs[i] = pair{w, f}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].w < pairs[j].w })

	o := &SortedOracle{bigrams: make(map[[2]string]bool)}
	for _, p := range pairs {
		if n := len(o.words); n > 0 && o.words[n-1] == p.w {
			continue
		}
		o.words = append(o.words, p.w)
		o.freq = append(o.freq, p.f)
	}
	o.permuter = permuter
	return o
}

// AddBigram registers (w1, w2) as a valid ordered pair.
func (o *SortedOracle) AddBigram(w1, w2 string) {
	o.bigrams[[2]string{strings.ToLower(w1), strings.ToLower(w2)}] = true
}

func (o *SortedOracle) lookup(s string) (int64, bool) {
	lower := strings.ToLower(s)
	i := sort.SearchStrings(o.words, lower)
	if i < len(o.words) && o.words[i] == lower {
		return o.freq[i], true
	}
	return 0, false
}

func (o *SortedOracle) ValidWord(ids []wordres.UnicharID, set *wordres.Unicharset) wordres.Permuter {
	if _, ok := o.lookup(Text(ids, set)); ok {
		return o.permuter
	}
	return wordres.NoPerm
}

func (o *SortedOracle) ValidBigram(w1, w2 []wordres.UnicharID, set *wordres.Unicharset) bool {
	key := [2]string{strings.ToLower(Text(w1, set)), strings.ToLower(Text(w2, set))}
	return o.bigrams[key]
}

func (o *SortedOracle) AddDocumentWord(ids []wordres.UnicharID, set *wordres.Unicharset) {
	// SortedOracle itself is immutable per spec's "standing DAWGs" model;
	// document augmentation lives in DocumentDict, composed alongside it.
}

func (o *SortedOracle) AcceptableWord(ids []wordres.UnicharID, set *wordres.Unicharset) caseclass.Class {
	return caseclass.Classify(Text(ids, set))
}

// Frequency returns the corpus frequency of s, or 0 if unknown.
func (o *SortedOracle) Frequency(s string) int64 {
	f, _ := o.lookup(s)
	return f
}

// DocumentDict is the short-lived, append-only in-page dictionary (spec
// §4.2: "add the word to the document dictionary", §5: "append-only
// within a page", GLOSSARY "Document dictionary"). It reports DOC_DAWG
// for any word it has accumulated.
type DocumentDict struct {
	seen map[string]bool
}

// NewDocumentDict returns an empty document dictionary, fresh for one page.
func NewDocumentDict() *DocumentDict {
	return &DocumentDict{seen: make(map[string]bool)}
}

func (d *DocumentDict) ValidWord(ids []wordres.UnicharID, set *wordres.Unicharset) wordres.Permuter {
	if d.seen[strings.ToLower(Text(ids, set))] {
		return wordres.DocDawg
	}
	return wordres.NoPerm
}

func (d *DocumentDict) ValidBigram([]wordres.UnicharID, []wordres.UnicharID, *wordres.Unicharset) bool {
	return false
}

// AddDocumentWord appends ids' text to the document dictionary.
func (d *DocumentDict) AddDocumentWord(ids []wordres.UnicharID, set *wordres.Unicharset) {
	d.seen[strings.ToLower(Text(ids, set))] = true
}

func (d *DocumentDict) AcceptableWord(ids []wordres.UnicharID, set *wordres.Unicharset) caseclass.Class {
	return caseclass.Classify(Text(ids, set))
}

// Multi composes several Oracles in priority order, matching the legacy
// cascade of system/user/freq/doc/punc/number DAWGs (spec §6). ValidWord
// returns the first non-NoPerm result; AddDocumentWord fans out to every
// member so a DocumentDict anywhere in the chain stays in sync.
type Multi struct {
	Oracles []Oracle
}

func (m *Multi) ValidWord(ids []wordres.UnicharID, set *wordres.Unicharset) wordres.Permuter {
	for _, o := range m.Oracles {
		if p := o.ValidWord(ids, set); p != wordres.NoPerm {
			return p
		}
	}
	return wordres.NoPerm
}

func (m *Multi) ValidBigram(w1, w2 []wordres.UnicharID, set *wordres.Unicharset) bool {
	for _, o := range m.Oracles {
		if o.ValidBigram(w1, w2, set) {
			return true
		}
	}
	return false
}

func (m *Multi) AddDocumentWord(ids []wordres.UnicharID, set *wordres.Unicharset) {
	for _, o := range m.Oracles {
		o.AddDocumentWord(ids, set)
	}
}

func (m *Multi) AcceptableWord(ids []wordres.UnicharID, set *wordres.Unicharset) caseclass.Class {
	if len(m.Oracles) == 0 {
		return caseclass.Unacceptable
	}
	return m.Oracles[0].AcceptableWord(ids, set)
}
