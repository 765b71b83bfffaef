package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ошибки денежной арифметики. Несовпадение валют - это ошибка программирования,
// поэтому операции возвращают её сразу, без попытки конвертации.
var (
	ErrCurrencyMismatch = fmt.Errorf("money: currency mismatch")
	ErrNegativeAmount   = fmt.Errorf("money: amount cannot be negative")
	ErrInvalidCurrency  = fmt.Errorf("money: currency must be a 3-letter code")
)

// Money представляет денежную сумму в конкретной валюте.
// Значение неизменяемое: каждая операция возвращает новое значение.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney создает денежное значение, проверяя инварианты (сумма >= 0, валюта ISO 4217)
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewMoneyFromString создает денежное значение из строкового представления суммы
func NewMoneyFromString(amount string, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// Zero возвращает нулевую сумму в указанной валюте
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add возвращает сумму двух значений одной валюты
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Subtract возвращает разность двух значений одной валюты.
// Отрицательный результат запрещен инвариантом.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	result := m.Amount.Sub(other.Amount)
	if result.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{Amount: result, Currency: m.Currency}, nil
}

// LessThan сравнивает суммы; валюты должны совпадать
func (m Money) LessThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.LessThan(other.Amount), nil
}

// GreaterThan сравнивает суммы; валюты должны совпадать
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

// IsZero проверяет, что сумма равна нулю
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}
