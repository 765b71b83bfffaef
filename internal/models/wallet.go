package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletOutcome - результат операции над кошельком.
// Бизнес-отказы возвращаются значением, а не ошибкой (ошибки - только для
// инфраструктурных проблем).
type WalletOutcome string

const (
	OutcomeOK                  WalletOutcome = "ok"
	OutcomeDeleted             WalletOutcome = "wallet_deleted"
	OutcomeClosed              WalletOutcome = "wallet_closed"
	OutcomeFrozen              WalletOutcome = "wallet_frozen"
	OutcomeNotActive           WalletOutcome = "wallet_not_active"
	OutcomeInvalidAmount       WalletOutcome = "invalid_amount"
	OutcomeInsufficientBalance WalletOutcome = "insufficient_balance"
	OutcomeNonZeroBalance      WalletOutcome = "non_zero_balance"
	OutcomeCurrencyMismatch    WalletOutcome = "currency_mismatch"
)

// OK сообщает, была ли операция успешной
func (o WalletOutcome) OK() bool {
	return o == OutcomeOK
}

// Reason возвращает человекочитаемую причину отказа
func (o WalletOutcome) Reason() string {
	switch o {
	case OutcomeDeleted:
		return "wallet is deleted"
	case OutcomeClosed:
		return "wallet is closed"
	case OutcomeFrozen:
		return "wallet is frozen"
	case OutcomeNotActive:
		return "wallet is not active"
	case OutcomeInvalidAmount:
		return "amount must be greater than zero"
	case OutcomeInsufficientBalance:
		return "insufficient balance"
	case OutcomeNonZeroBalance:
		return "wallet balance must be zero"
	case OutcomeCurrencyMismatch:
		return "currency does not match wallet currency"
	}
	return ""
}

// Wallet представляет кошелек клиента в одной валюте.
// Balance и AvailableBalance двигаются синхронно - механизма резервирования нет.
type Wallet struct {
	ID                string     `json:"id" db:"id"`
	CustomerID        string     `json:"customer_id" db:"customer_id"`
	WalletNumber      string     `json:"wallet_number" db:"wallet_number"`
	Balance           Money      `json:"balance"`
	AvailableBalance  Money      `json:"available_balance"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	IsFrozen          bool       `json:"is_frozen" db:"is_frozen"`
	IsClosed          bool       `json:"is_closed" db:"is_closed"`
	IsDeleted         bool       `json:"is_deleted" db:"is_deleted"`
	LastTransactionID string     `json:"last_transaction_id,omitempty" db:"last_transaction_id"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty" db:"last_transaction_at"`
	Version           int64      `json:"-" db:"version"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	ClosedAt          *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}

// NewWallet создает активный кошелек с нулевым балансом
func NewWallet(id, customerID, walletNumber, currency string) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:               id,
		CustomerID:       customerID,
		WalletNumber:     walletNumber,
		Balance:          Zero(currency),
		AvailableBalance: Zero(currency),
		IsActive:         true,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Currency возвращает валюту кошелька
func (w *Wallet) Currency() string {
	return w.Balance.Currency
}

// gate проверяет флаги, блокирующие движение средств.
// Deleted имеет высший приоритет и перекрывает остальные флаги.
func (w *Wallet) gate() WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	if w.IsClosed {
		return OutcomeClosed
	}
	if w.IsFrozen {
		return OutcomeFrozen
	}
	if !w.IsActive {
		return OutcomeNotActive
	}
	return OutcomeOK
}

// Deposit увеличивает баланс и доступный баланс на указанную сумму
func (w *Wallet) Deposit(money Money) WalletOutcome {
	if outcome := w.gate(); !outcome.OK() {
		return outcome
	}
	if money.Currency != w.Currency() {
		return OutcomeCurrencyMismatch
	}
	if money.IsZero() {
		return OutcomeInvalidAmount
	}

	newBalance, err := w.Balance.Add(money)
	if err != nil {
		return OutcomeCurrencyMismatch
	}
	newAvailable, err := w.AvailableBalance.Add(money)
	if err != nil {
		return OutcomeCurrencyMismatch
	}

	w.Balance = newBalance
	w.AvailableBalance = newAvailable
	w.UpdatedAt = time.Now().UTC()
	return OutcomeOK
}

// Withdraw уменьшает баланс и доступный баланс на указанную сумму
func (w *Wallet) Withdraw(money Money) WalletOutcome {
	if outcome := w.gate(); !outcome.OK() {
		return outcome
	}
	if money.Currency != w.Currency() {
		return OutcomeCurrencyMismatch
	}
	if money.IsZero() {
		return OutcomeInvalidAmount
	}

	insufficient, err := w.Balance.LessThan(money)
	if err != nil {
		return OutcomeCurrencyMismatch
	}
	availableInsufficient, err := w.AvailableBalance.LessThan(money)
	if err != nil {
		return OutcomeCurrencyMismatch
	}
	if insufficient || availableInsufficient {
		return OutcomeInsufficientBalance
	}

	newBalance, err := w.Balance.Subtract(money)
	if err != nil {
		return OutcomeInsufficientBalance
	}
	newAvailable, err := w.AvailableBalance.Subtract(money)
	if err != nil {
		return OutcomeInsufficientBalance
	}

	w.Balance = newBalance
	w.AvailableBalance = newAvailable
	w.UpdatedAt = time.Now().UTC()
	return OutcomeOK
}

// Freeze замораживает кошелек. Повторная заморозка - no-op с успешным результатом
func (w *Wallet) Freeze() WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	if w.IsClosed {
		return OutcomeClosed
	}
	if w.IsFrozen {
		return OutcomeOK
	}
	w.IsFrozen = true
	w.UpdatedAt = time.Now().UTC()
	return OutcomeOK
}

// Unfreeze размораживает кошелек. Повторная разморозка - no-op с успешным результатом
func (w *Wallet) Unfreeze() WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	if w.IsClosed {
		return OutcomeClosed
	}
	if !w.IsFrozen {
		return OutcomeOK
	}
	w.IsFrozen = false
	w.UpdatedAt = time.Now().UTC()
	return OutcomeOK
}

// SetActive включает или выключает кошелек
func (w *Wallet) SetActive(active bool) WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	if w.IsClosed {
		return OutcomeClosed
	}
	if w.IsActive == active {
		return OutcomeOK
	}
	w.IsActive = active
	w.UpdatedAt = time.Now().UTC()
	return OutcomeOK
}

// Close закрывает кошелек. Закрыть можно только кошелек с нулевым балансом
func (w *Wallet) Close() WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	if w.IsClosed {
		return OutcomeOK
	}
	if !w.Balance.IsZero() {
		return OutcomeNonZeroBalance
	}
	now := time.Now().UTC()
	w.IsClosed = true
	w.IsActive = false
	w.ClosedAt = &now
	w.UpdatedAt = now
	return OutcomeOK
}

// SoftDelete помечает кошелек удаленным. Состояние терминальное:
// из deleted нет перехода ни в какое другое состояние.
func (w *Wallet) SoftDelete() WalletOutcome {
	if w.IsDeleted {
		return OutcomeOK
	}
	if !w.Balance.IsZero() {
		return OutcomeNonZeroBalance
	}
	now := time.Now().UTC()
	w.IsDeleted = true
	w.IsClosed = true
	w.IsActive = false
	if w.ClosedAt == nil {
		w.ClosedAt = &now
	}
	w.UpdatedAt = now
	return OutcomeOK
}

// UpdateLastTransaction записывает идентификатор последней транзакции
func (w *Wallet) UpdateLastTransaction(transactionID string) WalletOutcome {
	if w.IsDeleted {
		return OutcomeDeleted
	}
	now := time.Now().UTC()
	w.LastTransactionID = transactionID
	w.LastTransactionAt = &now
	w.UpdatedAt = now
	return OutcomeOK
}

// BalanceDecimal возвращает числовое значение баланса (для сериализации в БД)
func (w *Wallet) BalanceDecimal() decimal.Decimal {
	return w.Balance.Amount
}
