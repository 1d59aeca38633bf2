package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes formatted_with_symbol for locally built amounts
const CurrencySymbol = "$"

// Money is an amount with its two display renderings.
// Raw is the source of truth; the formatted fields are derived from it by NewMoney.
type Money struct {
	Raw                 decimal.Decimal `json:"raw"`
	Formatted           string          `json:"formatted"`
	FormattedWithSymbol string          `json:"formatted_with_symbol"`
}

// NewMoney builds a Money whose renderings are derived from raw
func NewMoney(raw decimal.Decimal) Money {
	formatted := raw.StringFixed(2)
	return Money{
		Raw:                 raw,
		Formatted:           formatted,
		FormattedWithSymbol: CurrencySymbol + formatted,
	}
}

// ZeroMoney returns an empty amount
func ZeroMoney() Money {
	return NewMoney(decimal.Zero)
}

// Times returns the amount multiplied by a quantity
func (m Money) Times(quantity int) Money {
	return NewMoney(m.Raw.Mul(decimal.NewFromInt(int64(quantity))))
}

// MarshalJSON writes raw as a JSON number, the way the commerce API does
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Raw                 json.Number `json:"raw"`
		Formatted           string      `json:"formatted"`
		FormattedWithSymbol string      `json:"formatted_with_symbol"`
	}{
		Raw:                 json.Number(m.Raw.String()),
		Formatted:           m.Formatted,
		FormattedWithSymbol: m.FormattedWithSymbol,
	})
}
