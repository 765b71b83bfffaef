package services

import (
	"context"

	"wallet-transfer-system/internal/models"
)

// StartTransferRequest - запрос на запуск перевода через REST API
type StartTransferRequest struct {
	SenderCustomerNumber   string `json:"sender_customer_number" binding:"required"`
	ReceiverCustomerNumber string `json:"receiver_customer_number" binding:"required"`
	Amount                 string `json:"amount" binding:"required"`
	Currency               string `json:"currency" binding:"required"`
	ClientIPAddress        string `json:"-"`
}

// StartTransferResponse - ответ на запуск перевода
type StartTransferResponse struct {
	CorrelationID string `json:"correlation_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// TransferService определяет интерфейс инициации переводов
type TransferService interface {
	// StartTransfer валидирует запрос, находит участников и публикует стартовое событие саги
	StartTransfer(ctx context.Context, req *StartTransferRequest) (*StartTransferResponse, error)

	// GetTransferStatus возвращает экземпляр саги по correlation id; nil, если не найден
	GetTransferStatus(ctx context.Context, correlationID string) (*models.TransferSaga, error)

	// GetRecentTransfers возвращает последние переводы
	GetRecentTransfers(ctx context.Context, limit int) ([]*models.TransferSaga, error)
}

// WalletService определяет интерфейс операций над кошельками
type WalletService interface {
	// CreateWallet создает кошелек клиента с нулевым балансом
	CreateWallet(ctx context.Context, customerID, currency string) (*models.Wallet, error)

	// GetWallet получает кошелек по идентификатору; nil, если не найден
	GetWallet(ctx context.Context, walletID string) (*models.Wallet, error)

	// GetCustomerWallets получает кошельки клиента, опционально фильтруя по валюте
	GetCustomerWallets(ctx context.Context, customerID, currency string) ([]*models.Wallet, error)

	// Deposit пополняет кошелек
	Deposit(ctx context.Context, walletID string, money models.Money) (*models.Wallet, models.WalletOutcome, error)

	// Freeze замораживает кошелек
	Freeze(ctx context.Context, walletID string) (models.WalletOutcome, error)

	// Unfreeze размораживает кошелек
	Unfreeze(ctx context.Context, walletID string) (models.WalletOutcome, error)

	// CloseWallet закрывает кошелек
	CloseWallet(ctx context.Context, walletID string) (models.WalletOutcome, error)

	// HandleCommand обрабатывает команду шины (debit/credit/refund)
	HandleCommand(ctx context.Context, msg *models.Message) error
}

// FraudCheckService определяет интерфейс обработки команд fraud-проверки
type FraudCheckService interface {
	// HandleCommand обрабатывает команду check_fraud и публикует решение
	HandleCommand(ctx context.Context, msg *models.Message) error
}
