package model

import (
	"database/sql/driver"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO 4217 code used when none is configured.
const DefaultCurrency = "ILS"

var hundred = decimal.NewFromInt(100)

// Money is an exact monetary value expressed in major units.
type Money struct {
	value decimal.Decimal
}

// M builds a Money from a float. Intended for literals and tests.
func M(value float64) Money {
	return Money{value: decimal.NewFromFloat(value)}
}

// MoneyFromDecimal wraps an existing decimal.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{value: d}
}

// Zero is the zero amount.
func Zero() Money { return Money{} }

func (m Money) Decimal() decimal.Decimal  { return m.value }
func (m Money) IsZero() bool              { return m.value.IsZero() }
func (m Money) IsPositive() bool          { return m.value.IsPositive() }
func (m Money) IsNegative() bool          { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool        { return m.value.Equal(n.value) }
func (m Money) GreaterThan(n Money) bool  { return m.value.GreaterThan(n.value) }
func (m Money) Add(n Money) Money         { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money         { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money                { return Money{value: m.value.Neg()} }
func (m Money) InexactFloat64() float64   { return m.value.InexactFloat64() }
func (m Money) DivRatio(n Money) Percent  { return Percent{value: m.value.Div(n.value).Mul(hundred)} }
func (m Money) Percent(p Percent) Money   { return Money{value: m.value.Mul(p.value).Shift(-2)} }
func (m Money) WithPercent(p Percent) Money {
	return Money{value: m.value.Mul(hundred.Add(p.value)).Shift(-2)}
}

// String returns the plain decimal representation, e.g. "1200" or "52.5".
func (m Money) String() string { return m.value.String() }

// Format renders the amount with the currency's symbol, separators and
// fraction digits. Unknown codes fall back to go-money's generic template.
func (m Money) Format(currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	// money.New never returns a nil currency, GetCurrency does for unknown codes.
	cur := *money.New(0, currency).Currency()
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Scan implements sql.Scanner so Money can be read straight from a column.
func (m *Money) Scan(src any) error {
	return m.value.Scan(src)
}

// Value implements driver.Valuer; amounts are stored as exact decimal text.
func (m Money) Value() (driver.Value, error) {
	return m.value.String(), nil
}

// Percent is an exact percentage, 17 meaning 17%.
type Percent struct {
	value decimal.Decimal
}

// P builds a Percent from a float. Intended for literals and tests.
func P(value float64) Percent {
	return Percent{value: decimal.NewFromFloat(value)}
}

func (p Percent) Decimal() decimal.Decimal { return p.value }
func (p Percent) IsZero() bool             { return p.value.IsZero() }
func (p Percent) IsNegative() bool         { return p.value.IsNegative() }
func (p Percent) Equal(q Percent) bool     { return p.value.Equal(q.value) }
func (p Percent) String() string           { return p.value.String() }

// Fixed renders the percentage with the given number of decimals and a
// trailing percent sign.
func (p Percent) Fixed(places int32) string {
	return p.value.StringFixed(places) + "%"
}

func (p *Percent) Scan(src any) error {
	return p.value.Scan(src)
}

func (p Percent) Value() (driver.Value, error) {
	return p.value.String(), nil
}
