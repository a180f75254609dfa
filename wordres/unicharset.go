package wordres

// UnicharID identifies a single recognizable unit (usually one character,
// occasionally a ligature) within a Unicharset. Spec §6 treats the real
// unicharset encoding tables as an external collaborator; Unicharset here
// is the minimal concrete stand-in this module needs to build fixtures and
// drive the demo CLI.
type UnicharID int32

// Space is the reserved id for the space character. reject_blanks (spec
// §4.6) flags every character whose id equals Space.
const Space UnicharID = 0

// Unicharset is a bidirectional string<->UnicharID table. Build one with
// NewUnicharset, which maps Space to " " at id 0; the zero value has no
// entries and its Intern panics.
type Unicharset struct {
	strs []string
	ids  map[string]UnicharID
}

// NewUnicharset returns an empty set with Space pre-registered at id 0.
func NewUnicharset() *Unicharset {
	u := &Unicharset{
		strs: []string{" "},
		ids:  map[string]UnicharID{" ": Space},
	}
	return u
}

// Intern returns the id for s, registering a new id if s is unseen.
func (u *Unicharset) Intern(s string) UnicharID {
	if id, ok := u.ids[s]; ok {
		return id
	}
	id := UnicharID(len(u.strs))
	u.strs = append(u.strs, s)
	u.ids[s] = id
	return id
}

// String returns the textual form of id, or "" if id is out of range.
func (u *Unicharset) String(id UnicharID) string {
	if int(id) < 0 || int(id) >= len(u.strs) {
		return ""
	}
	return u.strs[id]
}

// IsSpace reports whether id is the reserved space id.
func IsSpace(id UnicharID) bool { return id == Space }
