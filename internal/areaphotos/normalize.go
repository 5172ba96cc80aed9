// Package areaphotos manages before-photo collections keyed by room or area.
//
// A collection (Map) maps a normalized area key such as "primary-bedroom" to an
// ordered, de-duplicated list of persistent photo URLs. Every function in this
// package is pure: inputs are never modified and each call returns a new value.
// Callers own persistence and must serialize read-modify-write cycles against
// their record store themselves; nothing here is safe to treat as atomic across
// calls.
package areaphotos

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxNormalizePasses bounds the fixed-point loop in Normalize.
const maxNormalizePasses = 4

// Normalize converts a free-text area label into a stable key.
//
// The key is lowercase, with words joined by single hyphens:
//
//	Normalize("Primary Bedroom")    // "primary-bedroom"
//	Normalize("  PRIMARY   BEDROOM") // "primary-bedroom"
//	Normalize("Kid's Room")          // "kids-room"
//
// Whitespace, '-', '_', '/', '.' and ',' separate words, so "Living.Room"
// becomes "living-room". Letters, digits and combining marks are kept; all
// other runes are dropped. Normalize never fails and maps the empty string to
// the empty string.
func Normalize(label string) string {
	key := normalizeOnce(label)
	// Dropping runes can expose new canonical compositions; repeat until stable.
	for i := 1; i < maxNormalizePasses; i++ {
		next := normalizeOnce(key)
		if next == key {
			break
		}
		key = next
	}
	return key
}

// IsNormalized reports whether label is already in key form.
func IsNormalized(label string) bool {
	return Normalize(label) == label
}

func normalizeOnce(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = norm.NFKC.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		case isSeparator(r):
			pendingSep = true
		}
	}
	return b.String()
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', '/', '.', ',':
		return true
	}
	return unicode.IsSpace(r)
}
