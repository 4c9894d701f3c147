// Package textutil prepares raw CSV field values for storage and rule
// matching. Every matcher in the classification engine operates on the
// output of NormalizeForMatch, which makes matching case-insensitive and
// whitespace-stable by construction.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sanitize normalizes a raw field value: Unicode NFKC normalization, removal
// of C0/C1 control characters, collapse of internal whitespace runs to a
// single space, and trimming. Returns "" for an empty input.
func Sanitize(value string) string {
	if value == "" {
		return ""
	}
	normalized := norm.NFKC.String(value)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeForMatch returns the sanitized value lower-cased. All rule
// matching goes through this, so keyword comparisons never see case or
// stray whitespace.
func NormalizeForMatch(value string) string {
	return strings.ToLower(Sanitize(value))
}

// isControl reports C0 (U+0000-U+001F, U+007F) and C1 (U+0080-U+009F) ranges
func isControl(r rune) bool {
	return r <= 0x1F || (r >= 0x7F && r <= 0x9F)
}
