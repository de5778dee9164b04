package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value as the data API stores it: decimal text.
// It decodes from either a JSON string or a JSON number so BigFloat and
// text columns read the same way.
type Amount string

// UnmarshalJSON accepts "12.50", 12.5 and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

// Bounds on a parsed amount. Exponent notation is accepted, but only within a
// monetary range, so "1e2000000000" is rejected instead of expanded.
const (
	maxAmountExponent = 15
	minAmountExponent = -18
	maxAmountDigits   = 38
)

// Decimal parses the amount. ok is false for empty or non-numeric text and
// for values outside the monetary range.
func (a Amount) Decimal() (d decimal.Decimal, ok bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < minAmountExponent || d.NumDigits() > maxAmountDigits {
		return decimal.Zero, false
	}
	return d, true
}

// IsZero reports whether the amount is unset.
func (a Amount) IsZero() bool { return strings.TrimSpace(string(a)) == "" }

// AmountOf formats a decimal in the canonical text form sent upstream.
func AmountOf(d decimal.Decimal) Amount {
	return Amount(d.String())
}
