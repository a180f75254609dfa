// Package langdata implements the persisted language-bundle archive
// format spec.md §6 describes for DictionaryOracle/AmbiguityTable data:
// a flat entry-count-plus-offset-table archive, with endianness
// autodetected via a bound on the plausible entry count, grounded in
// tesseract's tessdatamanager.cpp (kMaxNumTessdataEntries = 1000). It
// has no dependencies on other packages in this module — callers decode
// entry bytes into dict/AmbiguityTable structures themselves.
package langdata

import (
	"encoding/binary"
	"fmt"
)

// MaxEntries bounds how many entries a flat archive may declare. Reading
// the entry count under both byte orders and picking whichever falls
// within [0, MaxEntries] autodetects endianness without a magic number,
// matching tessdatamanager.cpp's kMaxNumTessdataEntries.
const MaxEntries = 1000

// Archive is a decoded flat language-data archive: named byte-slice
// entries (langdata calls an entry "a file", e.g. "unicharset",
// "freq-dawg", "ambigs").
type Archive struct {
	Names   []string
	Entries [][]byte
}

// Get returns the entry named name, or nil, false if absent.
func (a *Archive) Get(name string) ([]byte, bool) {
	for i, n := range a.Names {
		if n == name {
			return a.Entries[i], true
		}
	}
	return nil, false
}

// Put appends or replaces the entry named name.
func (a *Archive) Put(name string, data []byte) {
	for i, n := range a.Names {
		if n == name {
			a.Entries[i] = data
			return
		}
	}
	a.Names = append(a.Names, name)
	a.Entries = append(a.Entries, data)
}

// flat archive layout:
//
//	uint32 entryCount
//	entryCount * (uint32 nameLen, name bytes, uint64 dataLen)
//	concatenated entry data, in order
//
// Both entryCount and every offset/length field share one byte order,
// autodetected on read.

// Encode serializes a in the flat format, little-endian (the format this
// module writes; Decode autodetects either order on read, per
// tessdatamanager.cpp's technique, so archives written by other
// endianness producers still load).
func Encode(a *Archive) []byte {
	order := binary.LittleEndian
	var header []byte
	header = append(header, u32(order, uint32(len(a.Names)))...)
	var body []byte
	for i, name := range a.Names {
		header = append(header, u32(order, uint32(len(name)))...)
		header = append(header, name...)
		header = append(header, u64(order, uint64(len(a.Entries[i])))...)
		body = append(body, a.Entries[i]...)
	}
	return append(header, body...)
}

func u32(order binary.ByteOrder, v uint32) []byte {
	b := make([]byte, 4)
	order.PutUint32(b, v)
	return b
}

func u64(order binary.ByteOrder, v uint64) []byte {
	b := make([]byte, 8)
	order.PutUint64(b, v)
	return b
}

// Decode parses a flat archive, autodetecting byte order: it reads the
// leading entry count under both little- and big-endian and picks
// whichever lands within [0, MaxEntries] (spec §6's persisted-archive
// format; the endian-autodetection technique is recovered from
// tessdatamanager.cpp since spec.md names the mechanism without the
// bound).
func Decode(data []byte) (*Archive, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("langdata: archive too short for header")
	}
	order, err := detectOrder(data[:4])
	if err != nil {
		return nil, err
	}
	n := int(order.Uint32(data[:4]))

	a := &Archive{}
	pos := 4
	type pending struct {
		name string
		size uint64
	}
	var queue []pending
	for i := 0; i < n; i++ {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("langdata: truncated header at entry %d", i)
		}
		nameLen := int(order.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+nameLen+8 > len(data) {
			return nil, fmt.Errorf("langdata: truncated header at entry %d", i)
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen
		size := order.Uint64(data[pos : pos+8])
		pos += 8
		queue = append(queue, pending{name, size})
	}
	for _, p := range queue {
		if pos+int(p.size) > len(data) {
			return nil, fmt.Errorf("langdata: truncated body for entry %q", p.name)
		}
		a.Names = append(a.Names, p.name)
		a.Entries = append(a.Entries, data[pos:pos+int(p.size)])
		pos += int(p.size)
	}
	return a, nil
}

func detectOrder(first4 []byte) (binary.ByteOrder, error) {
	le := binary.LittleEndian.Uint32(first4)
	be := binary.BigEndian.Uint32(first4)
	leOK := le <= MaxEntries
	beOK := be <= MaxEntries
	switch {
	case leOK && !beOK:
		return binary.LittleEndian, nil
	case beOK && !leOK:
		return binary.BigEndian, nil
	case leOK && beOK:
		// Ambiguous (e.g. entry count 0, same bytes either way);
		// little-endian is this module's write order, so prefer it.
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("langdata: entry count exceeds MaxEntries (%d) under either byte order", MaxEntries)
	}
}
