// Package format renders amounts the way the calculator presents them.
package format

import (
	"math"
	"strconv"
	"strings"
)

// ThousandSeparator is the digit group separator used in Swedish amounts.
const ThousandSeparator = " "

// AddThousandSeparator floors the amount and groups its digits in threes,
// e.g. 1792800.7 -> "1 792 800".
func AddThousandSeparator(amount float64, separator string) string {
	floored := math.Floor(amount)
	sign := ""
	if floored < 0 {
		sign = "-"
		floored = -floored
	}
	intPart := strconv.FormatFloat(floored, 'f', 0, 64)

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteString(separator)
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return sign + intPart
}

// SEK returns a whole-krona amount such as "1 792 800 kr".
func SEK(amount float64) string {
	return AddThousandSeparator(amount, ThousandSeparator) + " kr"
}

// ByPeriod renders a yearly amount per year, or per month when monthly is set.
func ByPeriod(yearly float64, monthly bool) string {
	if monthly {
		return AddThousandSeparator(yearly/12, ThousandSeparator) + " kr / månad"
	}
	return AddThousandSeparator(yearly, ThousandSeparator) + " kr / år"
}
