package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(1500.50, CurrencyARS)
	require.NoError(t, err)
	assert.Equal(t, 1500.50, m.Amount)
	assert.Equal(t, CurrencyARS, m.Currency)
	assert.True(t, m.IsPositive())

	_, err = NewMoney(100, "EUR")
	assert.Error(t, err)
}

func TestMoneyConvertTo(t *testing.T) {
	usd, err := NewMoney(100, CurrencyUSD)
	require.NoError(t, err)

	ars, err := usd.ConvertTo(CurrencyARS, 1250)
	require.NoError(t, err)
	assert.Equal(t, 125000.0, ars.Amount)
	assert.Equal(t, CurrencyARS, ars.Currency)

	back, err := ars.ConvertTo(CurrencyUSD, 1250)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, back.Amount, 0.0001)

	// Same currency is the identity regardless of rate
	same, err := usd.ConvertTo(CurrencyUSD, 0)
	require.NoError(t, err)
	assert.Equal(t, usd, same)

	_, err = usd.ConvertTo(CurrencyARS, 0)
	assert.Error(t, err)

	_, err = usd.ConvertTo("EUR", 1250)
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	m := Money{Amount: 1234.5, Currency: CurrencyUSD}
	assert.Equal(t, "1234.50 USD", m.String())
}
