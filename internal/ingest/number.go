package ingest

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// MaxNumber caps parsed amounts so derived values such as stock value stay
// finite.
const MaxNumber = 1e12

// ParseNonNegativeNumber coerces a raw value from a form field, JSON body or
// CSV cell into a non-negative number. Unparseable input yields def and
// negative input yields 0. Strings may carry a leading "£" and thousands
// separators. Values above MaxNumber are clamped to it.
func ParseNonNegativeNumber(input interface{}, def float64) float64 {
	if input == nil {
		return def
	}

	switch raw := input.(type) {
	case bool:
		return def
	case string:
		s := normalizeNumeric(raw)
		if s == "" {
			return def
		}
		input = s
	}

	v, err := cast.ToFloat64E(input)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	if v < 0 {
		return 0
	}
	if v > MaxNumber {
		return MaxNumber
	}
	return v
}

// ParseNonNegativeInt is ParseNonNegativeNumber truncated to a whole count,
// so "12.9" becomes 12.
func ParseNonNegativeInt(input interface{}, def int) int {
	v := ParseNonNegativeNumber(input, math.NaN())
	if math.IsNaN(v) {
		return def
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func normalizeNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}
