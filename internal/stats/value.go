package stats

import (
	"regexp"
	"strconv"
	"strings"
)

var numericToken = regexp.MustCompile(`[+-]?\d+\.?\d*`)

// ExtractValue pulls the first signed, optionally decimal numeric token
// from a normalized modifier string. Ranged modifiers ("Adds 10 to 20
// Fire Damage") deliberately yield the first value, not the average;
// changing that would silently change search results.
func ExtractValue(normalized string) (float64, bool) {
	token := numericToken.FindString(normalized)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(token, "+"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
