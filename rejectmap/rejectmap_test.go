package rejectmap

import "testing"

func TestNewAllAccepted(t *testing.T) {
	t.Parallel()
	m := New(3)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if m.AllRejected() {
		t.Fatal("fresh map should not be all-rejected")
	}
	for i := 0; i < 3; i++ {
		if !m.At(i).Accepted {
			t.Fatalf("position %d should start accepted", i)
		}
	}
}

func TestRejectAndReasons(t *testing.T) {
	t.Parallel()
	m := New(2)
	m.Reject(0, EdgeChar)
	m.Reject(0, Hyphen)

	e := m.At(0)
	if e.Accepted {
		t.Fatal("position 0 should be rejected")
	}
	if !m.HasReason(0, EdgeChar) || !m.HasReason(0, Hyphen) {
		t.Fatal("expected both reasons present")
	}
	if m.HasReason(1, EdgeChar) {
		t.Fatal("position 1 should carry no reasons")
	}
	if m.RejectCount() != 1 {
		t.Fatalf("RejectCount() = %d, want 1", m.RejectCount())
	}
}

func TestRejectAll(t *testing.T) {
	t.Parallel()
	m := New(5)
	m.RejectAll(TessFailure)
	if !m.AllRejected() {
		t.Fatal("expected all-rejected after RejectAll")
	}
	for i := 0; i < 5; i++ {
		if !m.HasReason(i, TessFailure) {
			t.Fatalf("position %d missing TessFailure", i)
		}
	}
}

func TestUnrejectIsMonotoneException(t *testing.T) {
	t.Parallel()
	m := New(1)
	m.Reject(0, BadQuality)
	m.Unreject(0)
	if !m.At(0).Accepted {
		t.Fatal("Unreject should re-accept")
	}
	if !m.HasReason(0, MinimalRejAccept) {
		t.Fatal("Unreject should tag MinimalRejAccept")
	}
	if !m.HasReason(0, BadQuality) {
		t.Fatal("prior reasons should be preserved, not cleared")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	m := New(2)
	m.Reject(0, EdgeChar)
	clone := m.Clone()
	clone.Reject(1, Hyphen)

	if m.At(1).Accepted != true {
		t.Fatal("mutating clone must not affect original")
	}
	if clone.At(0).Accepted {
		t.Fatal("clone should retain original state")
	}
}

func TestResize(t *testing.T) {
	t.Parallel()
	m := New(2)
	m.Reject(1, PoorMatch)
	m.Resize(3)
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}
	if m.At(1).Accepted {
		t.Fatal("existing entries must survive resize")
	}
	if !m.At(2).Accepted {
		t.Fatal("new entries should default to accepted")
	}

	m.Resize(1)
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestReasonString(t *testing.T) {
	t.Parallel()
	r := EdgeChar | Hyphen
	got := r.String()
	if got != "HYPHEN|EDGE_CHAR" && got != "EDGE_CHAR|HYPHEN" {
		t.Fatalf("String() = %q", got)
	}
	if (Reason(0)).String() != "" {
		t.Fatal("zero reason should stringify empty")
	}
}
