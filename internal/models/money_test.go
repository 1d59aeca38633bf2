package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_Renderings(t *testing.T) {
	tests := []struct {
		raw        string
		formatted  string
		withSymbol string
	}{
		{"0", "0.00", "$0.00"},
		{"25", "25.00", "$25.00"},
		{"19.5", "19.50", "$19.50"},
		{"1234.567", "1234.57", "$1234.57"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := NewMoney(decimal.RequireFromString(tt.raw))
			assert.Equal(t, tt.formatted, m.Formatted)
			assert.Equal(t, tt.withSymbol, m.FormattedWithSymbol)
		})
	}
}

func TestMoney_Times(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("0.1")).Times(3)
	assert.True(t, m.Raw.Equal(decimal.RequireFromString("0.3")))
	assert.Equal(t, "0.30", m.Formatted)
}

func TestMoney_JSONRawIsNumber(t *testing.T) {
	data, err := json.Marshal(NewMoney(decimal.RequireFromString("25.5")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":25.5,"formatted":"25.50","formatted_with_symbol":"$25.50"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal([]byte(`{"raw":12,"formatted":"12.00","formatted_with_symbol":"€12.00"}`), &decoded))
	assert.True(t, decoded.Raw.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "€12.00", decoded.FormattedWithSymbol)
}
