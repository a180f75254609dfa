// Package rejectmap implements the per-character accept/reject bookkeeping
// described in spec.md §3 "RejectMap entry". It has no dependencies on any
// other package in this module — it is the leaf of the component graph.
package rejectmap

import "fmt"

// Reason is a single bit in a character's reason set. Multiple reasons may
// apply to the same character; Entry.Reasons is a bitmask.
type Reason uint32

const (
	TessFailure Reason = 1 << iota
	BadPermuter
	PoorMatch
	OneIlConflict
	Hyphen
	BadQuality
	EdgeChar
	DocReject
	BlockReject
	RowReject
	MMReject
	PostNN1Il
	MinimalRejAccept
)

var reasonNames = map[Reason]string{
	TessFailure:      "TESS_FAILURE",
	BadPermuter:      "BAD_PERMUTER",
	PoorMatch:        "POOR_MATCH",
	OneIlConflict:    "1IL_CONFLICT",
	Hyphen:           "HYPHEN",
	BadQuality:       "BAD_QUALITY",
	EdgeChar:         "EDGE_CHAR",
	DocReject:        "DOC_REJECT",
	BlockReject:      "BLOCK_REJECT",
	RowReject:        "ROW_REJECT",
	MMReject:         "MM_REJECT",
	PostNN1Il:        "POSTNN_1IL",
	MinimalRejAccept: "MINIMAL_REJ_ACCEPT",
}

// String renders the set of reasons present in r, e.g. "EDGE_CHAR|HYPHEN".
func (r Reason) String() string {
	if r == 0 {
		return ""
	}
	s := ""
	for bit := Reason(1); bit != 0 && bit <= MinimalRejAccept; bit <<= 1 {
		if r&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += reasonNames[bit]
		}
	}
	return s
}

// Entry is the accept/reject status of one character position.
type Entry struct {
	Accepted bool
	Reasons  Reason
}

// Map is a fixed-length, per-character reject map. Transitions are
// monotone toward finalization except through Unreject (the
// setrej_minimal_rej_accept escape hatch in spec §3).
type Map struct {
	entries []Entry
}

// New returns a Map of length n with every character initially accepted
// and reason-free.
func New(n int) *Map {
	m := &Map{entries: make([]Entry, n)}
	for i := range m.entries {
		m.entries[i].Accepted = true
	}
	return m
}

// Len returns the number of character positions in the map.
func (m *Map) Len() int { return len(m.entries) }

// At returns the entry at position i.
func (m *Map) At(i int) Entry { return m.entries[i] }

// Reject marks position i as rejected, adding reason to its reason set.
func (m *Map) Reject(i int, reason Reason) {
	m.entries[i].Accepted = false
	m.entries[i].Reasons |= reason
}

// RejectAll marks every position rejected with the given reason. Used to
// build the "fake" reject map for tess_failed and cancelled words (spec
// §4.1, §7).
func (m *Map) RejectAll(reason Reason) {
	for i := range m.entries {
		m.entries[i].Accepted = false
		m.entries[i].Reasons |= reason
	}
}

// Unreject re-accepts position i and tags it MINIMAL_REJ_ACCEPT, the one
// documented non-monotone transition (spec §3:
// "setrej_minimal_rej_accept() which re-accepts").
func (m *Map) Unreject(i int) {
	m.entries[i].Accepted = true
	m.entries[i].Reasons |= MinimalRejAccept
}

// HasReason reports whether position i carries reason in its reason set,
// regardless of current accept/reject state.
func (m *Map) HasReason(i int, reason Reason) bool {
	return m.entries[i].Reasons&reason != 0
}

// AllRejected reports whether every position in the map is rejected. Used
// to validate the tess_failed invariant (spec §3, §8).
func (m *Map) AllRejected() bool {
	for _, e := range m.entries {
		if e.Accepted {
			return false
		}
	}
	return true
}

// RejectCount returns the number of rejected positions.
func (m *Map) RejectCount() int {
	n := 0
	for _, e := range m.entries {
		if !e.Accepted {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of m, used when a WordResult is split or
// merged (spec §3 "WordResults may be split ... or merged").
func (m *Map) Clone() *Map {
	out := &Map{entries: make([]Entry, len(m.entries))}
	copy(out.entries, m.entries)
	return out
}

// Resize grows or shrinks the map to length n, preserving existing
// entries; any newly added positions start accepted and reason-free. Used
// when a word's best_choice length changes across a recognition retry.
func (m *Map) Resize(n int) {
	if n == len(m.entries) {
		return
	}
	next := make([]Entry, n)
	copy(next, m.entries)
	for i := len(m.entries); i < n; i++ {
		next[i].Accepted = true
	}
	m.entries = next
}

// GoString gives a compact debug representation, e.g. "[A R:EDGE_CHAR A]".
func (m *Map) GoString() string {
	s := "["
	for i, e := range m.entries {
		if i > 0 {
			s += " "
		}
		if e.Accepted {
			s += "A"
		} else {
			s += fmt.Sprintf("R:%s", e.Reasons)
		}
	}
	return s + "]"
}
