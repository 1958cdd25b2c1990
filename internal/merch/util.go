package merch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds v to the given number of decimal places.
func RoundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// FormatCurrency formats an amount in pounds using UK conventions:
// comma thousands separator and a decimal point.
// Example: 1234.5 (2 decimals) => "£1,234.50"; 1000 (0 decimals) => "£1,000".
func FormatCurrency(v float64, decimals int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	if decimals < 0 {
		decimals = 0
	}

	prefix := "£"
	if neg {
		prefix = "-£"
	}

	factor := math.Pow(10, float64(decimals))
	if math.IsInf(v, 0) || math.IsNaN(v) || v*factor >= math.MaxInt64 {
		return prefix + formatLarge(v, decimals)
	}

	scaled := int64(math.Round(v * factor))
	intPart := scaled / int64(factor)
	fracPart := scaled % int64(factor)

	s := groupThousands(strconv.FormatInt(intPart, 10))

	if decimals == 0 {
		return prefix + s
	}

	return fmt.Sprintf("%s%s.%0*d", prefix, s, decimals, fracPart)
}

// FormatPercent renders a margin with no decimals, e.g. "58%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// formatLarge renders amounts too big for int64 cents.
func formatLarge(v float64, decimals int) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart, frac, found := strings.Cut(s, ".")
	if !found {
		return groupThousands(intPart)
	}
	return groupThousands(intPart) + "." + frac
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var buf []byte
	count := 0
	for i := len(s) - 1; i >= 0; i-- {
		buf = append(buf, s[i])
		count++
		if count == 3 && i != 0 {
			buf = append(buf, ',')
			count = 0
		}
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
