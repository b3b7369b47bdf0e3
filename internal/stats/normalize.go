package stats

import (
	"regexp"
	"strings"
)

var (
	// "[Resistances|Chaos Resistance]" -> "Chaos Resistance"
	taggedAnnotation = regexp.MustCompile(`\[([^\]|]+)\|([^\]]+)\]`)
	// "[Critical]" -> "Critical"
	bareAnnotation = regexp.MustCompile(`\[([^\]|]+)\]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// Normalize strips display-only markup from a modifier string: bracketed
// "category|display" annotations keep only the display portion, bare
// bracketed annotations keep their inner text, whitespace runs collapse
// to single spaces. Unmatched bracket syntax passes through unchanged.
func Normalize(s string) string {
	s = taggedAnnotation.ReplaceAllString(s, "$2")
	s = bareAnnotation.ReplaceAllString(s, "$1")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// controlChars matches control characters the trade API rejects in name
// and type fields.
var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

// SanitizeForAPI normalizes an item name or base type for use in a query.
func SanitizeForAPI(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(Normalize(s), ""))
}
