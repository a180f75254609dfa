package monitor

import (
	"testing"
	"time"
)

func TestBasicNoDeadline(t *testing.T) {
	t.Parallel()
	m := NewBasic(time.Time{})
	if m.DeadlineExceeded() {
		t.Fatal("zero deadline should never be exceeded")
	}
}

func TestBasicDeadlineExceeded(t *testing.T) {
	t.Parallel()
	m := NewBasic(time.Now().Add(-time.Second))
	if !m.DeadlineExceeded() {
		t.Fatal("past deadline should be exceeded")
	}
}

func TestBasicCancel(t *testing.T) {
	t.Parallel()
	m := NewBasic(time.Time{})
	if m.CancelRequested() {
		t.Fatal("should not start cancelled")
	}
	m.Cancel()
	if !m.CancelRequested() {
		t.Fatal("expected cancellation observed")
	}
	m.Cancel() // idempotent
}

func TestBasicProgress(t *testing.T) {
	t.Parallel()
	m := NewBasic(time.Time{})
	m.SetProgress(42)
	if m.Progress() != 42 {
		t.Fatalf("Progress() = %d, want 42", m.Progress())
	}
}
