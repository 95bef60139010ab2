package types

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount rendered on the wire as a JSON number with two
// fractional digits.
type Money decimal.Decimal

// NewMoney rounds d half away from zero to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money(d.Round(2))
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.Decimal(m)
}

func (m Money) String() string {
	return decimal.Decimal(m).StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
