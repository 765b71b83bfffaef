package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.RequireFromString("100.50"), "TRY")
	require.NoError(t, err)
	assert.Equal(t, "100.5", m.Amount.String())
	assert.Equal(t, "TRY", m.Currency)
}

func TestNewMoney_NegativeAmount(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("-1"), "TRY")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestNewMoney_InvalidCurrency(t *testing.T) {
	_, err := NewMoney(decimal.RequireFromString("10"), "TURKISH_LIRA")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = NewMoney(decimal.RequireFromString("10"), "")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("250.00", "USD")
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("250")))

	_, err = NewMoneyFromString("not-a-number", "USD")
	assert.Error(t, err)
}

func TestMoney_Add(t *testing.T) {
	a, _ := NewMoneyFromString("100", "TRY")
	b, _ := NewMoneyFromString("50.25", "TRY")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "150.25", sum.Amount.String())

	// Исходные значения не меняются
	assert.Equal(t, "100", a.Amount.String())
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a, _ := NewMoneyFromString("100", "TRY")
	b, _ := NewMoneyFromString("50", "USD")

	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_Subtract(t *testing.T) {
	a, _ := NewMoneyFromString("100", "TRY")
	b, _ := NewMoneyFromString("100", "TRY")

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())
}

func TestMoney_Subtract_NegativeResult(t *testing.T) {
	a, _ := NewMoneyFromString("50", "TRY")
	b, _ := NewMoneyFromString("100", "TRY")

	_, err := a.Subtract(b)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestMoney_Comparisons(t *testing.T) {
	a, _ := NewMoneyFromString("50", "TRY")
	b, _ := NewMoneyFromString("100", "TRY")

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	c, _ := NewMoneyFromString("50", "USD")
	_, err = a.LessThan(c)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestZero(t *testing.T) {
	z := Zero("EUR")
	assert.True(t, z.IsZero())
	assert.Equal(t, "EUR", z.Currency)
}
