package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Типы сообщений, которыми обмениваются сервисы через Kafka.
// Каждое сообщение несет CorrelationID одной попытки перевода.
const (
	MsgTransferRequestStarted = "transfer_request_started"
	MsgCheckFraud             = "check_fraud"
	MsgFraudCheckApproved     = "fraud_check_approved"
	MsgFraudCheckDeclined     = "fraud_check_declined"
	MsgDebitSenderWallet      = "debit_sender_wallet"
	MsgWalletDebited          = "wallet_debited"
	MsgWalletDebitFailed      = "wallet_debit_failed"
	MsgCreditWallet           = "credit_wallet"
	MsgWalletCredited         = "wallet_credited"
	MsgWalletCreditFailed     = "wallet_credit_failed"
	MsgRefundSenderWallet     = "refund_sender_wallet"
	MsgSenderRefunded         = "sender_refunded"
	MsgWalletBalanceUpdated   = "wallet_balance_updated"
)

// Message - конверт сообщения в Kafka. Payload сериализуется отдельно,
// чтобы consumer мог маршрутизировать по EventType до разбора тела.
type Message struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	CorrelationID string          `json:"correlation_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// NewMessage создает конверт с сериализованным телом
func NewMessage(eventType, correlationID string, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &Message{
		EventID:       "evt_" + uuid.New().String(),
		EventType:     eventType,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Data:          data,
	}, nil
}

// Decode разбирает тело сообщения в указанную структуру
func (m *Message) Decode(payload interface{}) error {
	if err := json.Unmarshal(m.Data, payload); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", m.EventType, err)
	}
	return nil
}

// TransferRequestStarted - стартовое событие саги
type TransferRequestStarted struct {
	CorrelationID          string          `json:"correlation_id"`
	TransactionID          string          `json:"transaction_id"`
	SenderCustomerID       string          `json:"sender_customer_id"`
	SenderCustomerNumber   string          `json:"sender_customer_number"`
	ReceiverCustomerID     string          `json:"receiver_customer_id"`
	ReceiverCustomerNumber string          `json:"receiver_customer_number"`
	SenderWalletID         string          `json:"sender_wallet_id"`
	ReceiverWalletID       string          `json:"receiver_wallet_id"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	ClientIPAddress        string          `json:"client_ip_address,omitempty"`
}

// CheckFraud - команда fraud-сервису на проверку перевода
type CheckFraud struct {
	CorrelationID      string          `json:"correlation_id"`
	SenderCustomerID   string          `json:"sender_customer_id"`
	ReceiverCustomerID string          `json:"receiver_customer_id"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	ClientIPAddress    string          `json:"client_ip_address,omitempty"`
}

// FraudCheckApproved - перевод прошел проверку
type FraudCheckApproved struct {
	CorrelationID string `json:"correlation_id"`
}

// FraudCheckDeclined - перевод отклонен с причиной первого сработавшего правила
type FraudCheckDeclined struct {
	CorrelationID string `json:"correlation_id"`
	Reason        string `json:"reason"`
}

// DebitSenderWallet - команда на списание с кошелька отправителя
type DebitSenderWallet struct {
	CorrelationID   string          `json:"correlation_id"`
	OwnerCustomerID string          `json:"owner_customer_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionID   string          `json:"transaction_id"`
}

// WalletDebited - списание выполнено
type WalletDebited struct {
	CorrelationID string          `json:"correlation_id"`
	WalletID      string          `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// WalletDebitFailed - списание не выполнено
type WalletDebitFailed struct {
	CorrelationID string `json:"correlation_id"`
	Reason        string `json:"reason"`
}

// CreditWallet - команда на зачисление на кошелек получателя
type CreditWallet struct {
	CorrelationID string          `json:"correlation_id"`
	WalletID      string          `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transaction_id"`
}

// WalletCredited - зачисление выполнено
type WalletCredited struct {
	CorrelationID string          `json:"correlation_id"`
	WalletID      string          `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// WalletCreditFailed - зачисление не выполнено
type WalletCreditFailed struct {
	CorrelationID string `json:"correlation_id"`
	Reason        string `json:"reason"`
}

// RefundSenderWallet - компенсирующая команда: вернуть списанную сумму отправителю
type RefundSenderWallet struct {
	CorrelationID   string          `json:"correlation_id"`
	OwnerCustomerID string          `json:"owner_customer_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionID   string          `json:"transaction_id"`
}

// SenderRefunded - возврат выполнен
type SenderRefunded struct {
	CorrelationID string          `json:"correlation_id"`
	WalletID      string          `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// WalletBalanceUpdated - широковещательное событие для read-моделей.
// Сагой не потребляется.
type WalletBalanceUpdated struct {
	WalletID   string          `json:"wallet_id"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Currency   string          `json:"currency"`
	AtUTC      time.Time       `json:"at_utc"`
}
