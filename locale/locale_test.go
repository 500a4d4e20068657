package locale

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"5":          "R$ 5,00",
		"5200":       "R$ 5.200,00",
		"1234.56":    "R$ 1.234,56",
		"1234567.8":  "R$ 1.234.567,80",
		"999.999":    "R$ 1.000,00",
		"0.125":      "R$ 0,12",
		"0.135":      "R$ 0,14",
		"-450":       "-R$ 450,00",
		"-0.001":     "R$ 0,00",
		"100000":     "R$ 100.000,00",
		"1000000000": "R$ 1.000.000.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatCurrencyFloat(t *testing.T) {
	s, err := FormatCurrencyFloat(4050)
	require.NoError(t, err)
	assert.Equal(t, "R$ 4.050,00", s)

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FormatCurrencyFloat(bad)
		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "currency", fe.Kind)
	}
}

func TestFormatDate(t *testing.T) {
	s, err := FormatDate("2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, "16 de outubro de 2026", s)

	s, err = FormatDate("2025-03-01T23:30:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, "1 de março de 2025", s)

	_, err = FormatDate("16/10/2026")
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "date", fe.Kind)
	assert.Equal(t, "16/10/2026", fe.Input)
}

func TestShortDate(t *testing.T) {
	s, err := ShortDate("2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, "05/01/2026", s)
}

func TestFormatQuantityAndPercent(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, "1.000", FormatQuantity(decimal.NewFromInt(1000)))
	assert.Equal(t, "2,5", FormatQuantity(decimal.RequireFromString("2.50")))
	assert.Equal(t, "10%", FormatPercent(decimal.NewFromInt(10)))
	assert.Equal(t, "12,5%", FormatPercent(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0%", FormatPercent(decimal.Zero))
}
