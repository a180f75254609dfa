package caseclass

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Class
	}{
		{"empty", "", Unacceptable},
		{"digits only", "123", Unacceptable},
		{"lowercase word", "hello", LowerCase},
		{"uppercase word", "HELLO", UpperCase},
		{"initial cap", "Hello", InitialCap},
		{"lowercase abbrev", "etc.", LCAbbrev},
		{"uppercase abbrev", "U.S.", UCAbbrev},
		{"mixed internal case", "hElLo", Unacceptable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		original, corrected, want string
	}{
		{"THE", "dog", "DOG"},
		{"The", "dog", "Dog"},
		{"the", "dog", "dog"},
		{"", "dog", "dog"},
		{"The", "", ""},
	}
	for _, tt := range tests {
		if got := ApplyCase(tt.original, tt.corrected); got != tt.want {
			t.Errorf("ApplyCase(%q, %q) = %q, want %q", tt.original, tt.corrected, got, tt.want)
		}
	}
}

func TestContainsDigitAllDigit(t *testing.T) {
	t.Parallel()

	if !ContainsDigit("a1b") {
		t.Error("expected digit detected")
	}
	if ContainsDigit("abc") {
		t.Error("expected no digit")
	}
	if !AllDigit("12345") {
		t.Error("expected all-digit")
	}
	if AllDigit("") {
		t.Error("empty should not be all-digit")
	}
	if AllDigit("12a") {
		t.Error("12a should not be all-digit")
	}
}
