package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferState - состояние экземпляра саги перевода
type TransferState string

const (
	StatePending               TransferState = "pending"
	StateSenderDebitPending    TransferState = "sender_debit_pending"
	StateReceiverCreditPending TransferState = "receiver_credit_pending"
	StateCompleted             TransferState = "completed"
	StateFailed                TransferState = "failed"
)

// IsTerminal сообщает, является ли состояние терминальным
func (s TransferState) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// TransferSaga - персистентный экземпляр саги перевода.
// Создается по стартовому событию и коррелируется по CorrelationID;
// один экземпляр на одну попытку перевода, повторно не используется.
type TransferSaga struct {
	CorrelationID          string          `json:"correlation_id" db:"correlation_id"`
	TransactionID          string          `json:"transaction_id" db:"transaction_id"`
	CurrentState           TransferState   `json:"current_state" db:"current_state"`
	SenderCustomerID       string          `json:"sender_customer_id" db:"sender_customer_id"`
	SenderCustomerNumber   string          `json:"sender_customer_number" db:"sender_customer_number"`
	ReceiverCustomerID     string          `json:"receiver_customer_id" db:"receiver_customer_id"`
	ReceiverCustomerNumber string          `json:"receiver_customer_number" db:"receiver_customer_number"`
	SenderWalletID         string          `json:"sender_wallet_id" db:"sender_wallet_id"`
	ReceiverWalletID       string          `json:"receiver_wallet_id" db:"receiver_wallet_id"`
	Amount                 decimal.Decimal `json:"amount" db:"amount"`
	Currency               string          `json:"currency" db:"currency"`
	FailureReason          *string         `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt              time.Time       `json:"created_at" db:"created_at"`
	CompletedAt            *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}
