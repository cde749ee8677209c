// Package core holds the payroll data model and the money/date
// normalization used to coerce raw spreadsheet text into it.
//
// This file contains money parsing and conversion between cents and
// dollar representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in cents. Cents are used for all arithmetic;
// Dollars exists for display only.
type Money struct {
	Cents int64 `json:"cents"`
}

// ParseMoney coerces a raw monetary string to Money. It strips the
// currency symbol, thousands separators and quote characters, then
// parses the remainder as a decimal with half-up rounding on the third
// decimal place. Malformed or empty input degrades to zero; this
// function never fails, matching the tolerance of the spreadsheet
// export it consumes.
//
// Examples:
//
//	ParseMoney(`"$1,234.50"`) -> 123450 cents
//	ParseMoney("730")         -> 73000 cents
//	ParseMoney("n/a")         -> 0 cents
func ParseMoney(raw string) Money {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}
	}

	// Take first two fractional digits; half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return Money{Cents: cents}
}

// Dollars returns the dollar value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// IsZero reports whether the amount is exactly zero cents.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Positive reports whether the amount is greater than zero.
func (m Money) Positive() bool {
	return m.Cents > 0
}
