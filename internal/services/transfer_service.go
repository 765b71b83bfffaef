package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"wallet-transfer-system/internal/clients"
	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/logger"
	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/storage"
)

// Ошибки валидации запроса на перевод. Отдаются вызывающему до какой-либо
// мутации состояния и автоматически не повторяются.
var (
	ErrSenderNotFound   = errors.New("sender customer not found")
	ErrReceiverNotFound = errors.New("receiver customer not found")
	ErrSenderNoWallet   = errors.New("sender has no wallet in this currency")
	ErrReceiverNoWallet = errors.New("receiver has no wallet in this currency")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrSelfTransfer     = errors.New("sender and receiver must be different customers")
)

// TransferServiceImpl реализует интерфейс TransferService
type TransferServiceImpl struct {
	sagas     storage.SagaRepository
	customers clients.CustomerLookup
	wallets   clients.WalletLookup
	producer  kafka.Producer
	topics    config.KafkaConfig
}

// NewTransferService создает новый сервис инициации переводов
func NewTransferService(
	sagas storage.SagaRepository,
	customers clients.CustomerLookup,
	wallets clients.WalletLookup,
	producer kafka.Producer,
	topics config.KafkaConfig,
) TransferService {
	return &TransferServiceImpl{
		sagas:     sagas,
		customers: customers,
		wallets:   wallets,
		producer:  producer,
		topics:    topics,
	}
}

// StartTransfer валидирует запрос, находит участников перевода и публикует
// стартовое событие саги. Сам перевод выполняется асинхронно.
func (s *TransferServiceImpl) StartTransfer(ctx context.Context, req *StartTransferRequest) (*StartTransferResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := models.NewMoney(amount, req.Currency); err != nil {
		return nil, fmt.Errorf("invalid transfer request: %w", err)
	}
	if req.SenderCustomerNumber == req.ReceiverCustomerNumber {
		return nil, ErrSelfTransfer
	}

	sender, err := s.customers.GetCustomerByNumber(ctx, req.SenderCustomerNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender: %w", err)
	}
	if sender == nil {
		return nil, ErrSenderNotFound
	}

	receiver, err := s.customers.GetCustomerByNumber(ctx, req.ReceiverCustomerNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up receiver: %w", err)
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}

	senderWallet, err := s.wallets.GetWalletByCustomerAndCurrency(ctx, sender.ID, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender wallet: %w", err)
	}
	if senderWallet == nil {
		return nil, ErrSenderNoWallet
	}

	receiverWallet, err := s.wallets.GetWalletByCustomerAndCurrency(ctx, receiver.ID, req.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to look up receiver wallet: %w", err)
	}
	if receiverWallet == nil {
		return nil, ErrReceiverNoWallet
	}

	correlationID := uuid.New().String()
	transactionID := "txn_" + uuid.New().String()

	event := &models.TransferRequestStarted{
		CorrelationID:          correlationID,
		TransactionID:          transactionID,
		SenderCustomerID:       sender.ID,
		SenderCustomerNumber:   sender.CustomerNumber,
		ReceiverCustomerID:     receiver.ID,
		ReceiverCustomerNumber: receiver.CustomerNumber,
		SenderWalletID:         senderWallet.ID,
		ReceiverWalletID:       receiverWallet.ID,
		Amount:                 amount,
		Currency:               req.Currency,
		ClientIPAddress:        req.ClientIPAddress,
	}

	msg, err := models.NewMessage(models.MsgTransferRequestStarted, correlationID, event)
	if err != nil {
		return nil, err
	}
	if err := s.producer.Publish(s.topics.TransferEventsTopic, msg); err != nil {
		return nil, fmt.Errorf("failed to publish transfer start: %w", err)
	}

	logger.LogEvent(logger.EventTransferStarted, "transfer-service", "api", map[string]interface{}{
		"correlation_id": correlationID,
		"transaction_id": transactionID,
		"amount":         amount.String(),
		"currency":       req.Currency,
	})

	return &StartTransferResponse{
		CorrelationID: correlationID,
		TransactionID: transactionID,
		Status:        "accepted",
	}, nil
}

// GetTransferStatus возвращает экземпляр саги по correlation id
func (s *TransferServiceImpl) GetTransferStatus(ctx context.Context, correlationID string) (*models.TransferSaga, error) {
	return s.sagas.GetSagaByCorrelationID(ctx, correlationID)
}

// GetRecentTransfers возвращает последние переводы
func (s *TransferServiceImpl) GetRecentTransfers(ctx context.Context, limit int) ([]*models.TransferSaga, error) {
	return s.sagas.GetRecentSagas(ctx, limit)
}
