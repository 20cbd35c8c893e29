// Package money renders amounts with South Asian digit grouping:
// the last three integer digits form one group and every two digits before
// that form another, e.g. 1,00,000 and 12,34,56,789.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RupeeSymbol prefixes displayed amounts.
const RupeeSymbol = "₹"

// FormatIndianNumber groups a string of digits. Non-digit characters are dropped
// first, so partially typed input like "1,0000" regroups to "10,000".
func FormatIndianNumber(digits string) string {
	digits = stripNonDigits(digits)
	if digits == "" {
		return "0"
	}
	if len(digits) <= 3 {
		return digits
	}

	head, lastThree := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(lastThree)
	return b.String()
}

// FormatIndianCurrency renders value with the given number of decimals and
// grouped integer digits. Rounding is half away from zero.
func FormatIndianCurrency(value float64, decimals int32) string {
	fixed := decimal.NewFromFloat(value).StringFixed(decimals)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}

	intPart, decPart, hasDec := strings.Cut(fixed, ".")
	out := sign + FormatIndianNumber(intPart)
	if hasDec {
		out += "." + decPart
	}
	return out
}

// FormatRupees is FormatIndianCurrency with two decimals and the rupee sign.
func FormatRupees(value float64) string {
	return RupeeSymbol + FormatIndianCurrency(value, 2)
}

// FormatWholeRupees drops the fraction, the way principal is shown.
func FormatWholeRupees(value float64) string {
	return RupeeSymbol + FormatIndianNumber(decimal.NewFromFloat(value).Truncate(0).String())
}

func stripNonDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
