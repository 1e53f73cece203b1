package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places held in Amount.
const MinorUnitExponent = 2

var hundred = decimal.NewFromInt(100)

// Money is an exact amount in minor units of a single currency
type Money struct {
	Amount   int64  `gorm:"not null;default:0"`
	Currency string `gorm:"size:3;not null"`
}

// New creates a money value from minor units
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns an empty amount in the given currency
func Zero(currency string) Money {
	return Money{Currency: currency}
}

// FromDecimal converts a major-unit decimal such as 1.30 into minor units,
// rounding half away from zero.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{
		Amount:   d.Shift(MinorUnitExponent).Round(0).IntPart(),
		Currency: currency,
	}
}

// Parse reads a major-unit string such as "1.30"
func Parse(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return FromDecimal(d, currency), nil
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -MinorUnitExponent)
}

func (m Money) Add(o Money) Money {
	m.mustMatch(o)
	return Money{Amount: m.Amount + o.Amount, Currency: m.currency(o)}
}

func (m Money) Sub(o Money) Money {
	m.mustMatch(o)
	return Money{Amount: m.Amount - o.Amount, Currency: m.currency(o)}
}

func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

// NetOf splits VAT out of a gross amount: gross / (1 + ratePercent/100),
// rounded half away from zero to the minor unit.
func (m Money) NetOf(ratePercent decimal.Decimal) Money {
	divisor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	net := decimal.NewFromInt(m.Amount).DivRound(divisor, 0)
	return Money{Amount: net.IntPart(), Currency: m.Currency}
}

// Sum adds up amounts; an empty list yields zero in currency.
func Sum(currency string, amounts ...Money) Money {
	total := Zero(currency)
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func (m Money) String() string {
	s := m.Decimal().StringFixed(MinorUnitExponent)
	if m.Currency == "" {
		return s
	}
	return s + " " + m.Currency
}

// An empty currency is treated as "not yet known" and adopts the other side.
func (m Money) mustMatch(o Money) {
	if m.Currency != "" && o.Currency != "" && m.Currency != o.Currency {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, o.Currency))
	}
}

func (m Money) currency(o Money) string {
	if m.Currency != "" {
		return m.Currency
	}
	return o.Currency
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Decimal(), Currency: m.Currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = FromDecimal(raw.Amount, raw.Currency)
	return nil
}
