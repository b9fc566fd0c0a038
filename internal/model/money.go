package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value with an optional currency tag.
// Rendering is locale-independent: '.' is always the decimal separator and
// ',' the grouping separator, whatever convention the source text used.
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
}

// NewAmount builds an Amount from an already-canonical decimal string
// (dot decimal, no grouping).
func NewAmount(canonical, currency string) (Amount, error) {
	v, err := decimal.NewFromString(canonical)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: v, Currency: currency}, nil
}

// String renders the amount with two decimal places and comma grouping,
// e.g. 1400 -> "1,400.00".
func (a Amount) String() string {
	fixed := a.Value.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// Equal reports whether two amounts have the same numeric value.
func (a Amount) Equal(other Amount) bool {
	return a.Value.Equal(other.Value)
}
