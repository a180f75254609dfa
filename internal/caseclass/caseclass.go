// Package caseclass provides generic Unicode case classification and
// composition helpers shared by the dictionary oracles and the rejection
// engine.
//
// It is adapted from a Turkic-specific case package: the dotted/dotless
// I special casing has been dropped (the core is script-agnostic — the
// unicharset, not this package, owns any language-specific case table),
// but the shape of the API — Lower/Upper/ToLower/ToUpper, IsAllUpper,
// IsTitleCase, ApplyCase — and the "classify, don't guess" style carries
// over unchanged.
//
// All functions are safe for concurrent use.
package caseclass

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lower returns the Unicode-standard lowercase form of r.
func Lower(r rune) rune { return unicode.ToLower(r) }

// Upper returns the Unicode-standard uppercase form of r.
func Upper(r rune) rune { return unicode.ToUpper(r) }

// ToLower returns s with standard Unicode lowercasing applied rune-by-rune.
func ToLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(Lower(r))
	}
	return b.String()
}

// ToUpper returns s with standard Unicode uppercasing applied rune-by-rune.
func ToUpper(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(Upper(r))
	}
	return b.String()
}

// UpperFirst returns s with its first rune uppercased.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(Upper(r))
	b.WriteString(s[size:])
	return b.String()
}

// IsTitleCase reports whether s has its first rune uppercase and at least
// one subsequent lowercase letter (distinguishing "Word" from an acronym
// like "WORD").
func IsTitleCase(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return false
	}
	rest := s[size:]
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if unicode.IsLetter(c) && !unicode.IsUpper(c) {
			return true
		}
	}
	return false
}

// IsAllUpper reports whether every letter in s is uppercase. Returns false
// for strings with no letters at all.
func IsAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// IsAllLower reports whether every letter in s is lowercase. Returns false
// for strings with no letters at all.
func IsAllLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// ContainsDigit reports whether s contains any digit rune.
func ContainsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// AllDigit reports whether every rune in s is a digit, and s is non-empty.
func AllDigit(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Class is the coarse case classification used by DictionaryOracle's
// acceptable_word query (spec §6).
type Class int

const (
	Unacceptable Class = iota
	LowerCase
	UpperCase
	InitialCap
	LCAbbrev
	UCAbbrev
)

// Classify reports the case pattern of s, mirroring the six-way split
// DictionaryOracle.acceptable_word is specified to return (spec §6):
// UNACCEPTABLE when s has no letters, LOWER_CASE/UPPER_CASE/INITIAL_CAP for
// the obvious patterns, and the two abbreviation forms for short runs of
// letters with trailing/embedded periods (e.g. "etc." is LC_ABBREV, "U.S."
// is UC_ABBREV).
func Classify(s string) Class {
	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
	if letters == "" {
		return Unacceptable
	}
	hasDot := strings.ContainsRune(s, '.')
	switch {
	case IsAllUpper(letters):
		if hasDot {
			return UCAbbrev
		}
		return UpperCase
	case IsAllLower(letters):
		if hasDot {
			return LCAbbrev
		}
		return LowerCase
	case IsTitleCase(letters):
		return InitialCap
	default:
		return Unacceptable
	}
}

// ApplyCase transfers the case pattern of original onto corrected: all
// upper stays all upper, an initial-capital stays initial-capital,
// otherwise corrected is left as-is. Used by dict.AmbigEntry.ApplyCase to
// preserve the surface case of a replaced ambiguity.
func ApplyCase(original, corrected string) string {
	if original == "" || corrected == "" {
		return corrected
	}
	if IsAllUpper(original) {
		return ToUpper(corrected)
	}
	firstRune, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(firstRune) {
		return UpperFirst(corrected)
	}
	return corrected
}
