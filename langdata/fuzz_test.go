package langdata

import (
	"bytes"
	"testing"
)

// FuzzEncodeDecodeRoundTrip pins spec §8's byte-identical round-trip
// property: decoding an archive that was just encoded must reproduce the
// exact same names and entry bytes, for any entry count/name/payload
// combination the fuzzer finds.
func FuzzEncodeDecodeRoundTrip(f *testing.F) {
	f.Add("unicharset", []byte("abc"), "freq-dawg", []byte{1, 2, 3, 4})
	f.Add("", []byte{}, "", []byte{})
	f.Add("ambigs", []byte{0x00, 0xff}, "ambigs", []byte("dup name wins"))
	f.Add("x", []byte(nil), "y", []byte(nil))

	f.Fuzz(func(t *testing.T, name1 string, data1 []byte, name2 string, data2 []byte) {
		a := &Archive{}
		a.Put(name1, data1)
		a.Put(name2, data2)

		decoded, err := Decode(Encode(a))
		if err != nil {
			t.Fatalf("Decode(Encode(a)) failed: %v", err)
		}

		for i, name := range a.Names {
			got, ok := decoded.Get(name)
			if !ok {
				t.Fatalf("entry %q missing after round trip", name)
			}
			if !bytes.Equal(got, a.Entries[i]) {
				t.Fatalf("entry %q round-tripped to %v, want %v", name, got, a.Entries[i])
			}
		}
		if len(decoded.Names) != len(a.Names) {
			t.Fatalf("entry count changed: got %d, want %d", len(decoded.Names), len(a.Names))
		}
	})
}

// FuzzDecodeNeverPanics documents that arbitrary byte input is rejected
// with an error, never a panic, since Decode runs on data this module
// did not necessarily write itself.
func FuzzDecodeNeverPanics(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add(Encode(&Archive{Names: []string{"a"}, Entries: [][]byte{{1, 2}}}))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Decode(data)
	})
}
