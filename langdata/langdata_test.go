package langdata

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	a := &Archive{}
	a.Put("unicharset", []byte("abc"))
	a.Put("freq-dawg", []byte{1, 2, 3, 4})

	decoded, err := Decode(Encode(a))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	got, ok := decoded.Get("unicharset")
	if !ok || !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("unicharset entry = %q, ok=%v", got, ok)
	}
	got, ok = decoded.Get("freq-dawg")
	if !ok || !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Fatalf("freq-dawg entry = %v, ok=%v", got, ok)
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	t.Parallel()
	a := &Archive{}
	a.Put("x", []byte("first"))
	a.Put("x", []byte("second"))
	if len(a.Names) != 1 {
		t.Fatalf("expected a single entry after replace, got %d", len(a.Names))
	}
	got, _ := a.Get("x")
	if string(got) != "second" {
		t.Fatalf("got %q, want second", got)
	}
}

func TestDecodeAutodetectsBigEndian(t *testing.T) {
	t.Parallel()
	// Hand-build a big-endian archive with one entry, bypassing Encode
	// (which always writes little-endian) to exercise autodetection.
	var buf bytes.Buffer
	count := make([]byte, 4)
	binary.BigEndian.PutUint32(count, 1)
	buf.Write(count)

	nameLen := make([]byte, 4)
	binary.BigEndian.PutUint32(nameLen, uint32(len("ambigs")))
	buf.Write(nameLen)
	buf.WriteString("ambigs")

	dataLen := make([]byte, 8)
	binary.BigEndian.PutUint64(dataLen, 3)
	buf.Write(dataLen)
	buf.WriteString("xyz")

	a, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	got, ok := a.Get("ambigs")
	if !ok || string(got) != "xyz" {
		t.Fatalf("got %q, ok=%v", got, ok)
	}
}

func TestDecodeRejectsImplausibleEntryCount(t *testing.T) {
	t.Parallel()
	// 0xFFFFFFFF reads as a huge count under both byte orders.
	huge := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if _, err := Decode(huge); err == nil {
		t.Fatal("expected an error for an implausible entry count under both byte orders")
	}
}
