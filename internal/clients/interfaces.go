package clients

import (
	"context"

	"wallet-transfer-system/internal/models"
)

// CustomerLookup определяет интерфейс внешнего сервиса клиентов.
// Все методы возвращают (nil, nil) для ненайденных клиентов:
// решение fail-closed принимает вызывающий.
type CustomerLookup interface {
	// GetCustomerByID получает клиента по идентификатору
	GetCustomerByID(ctx context.Context, customerID string) (*models.Customer, error)

	// GetCustomerByNumber получает клиента по клиентскому номеру
	GetCustomerByNumber(ctx context.Context, customerNumber string) (*models.Customer, error)

	// GetCustomersBatch получает нескольких клиентов одним запросом
	GetCustomersBatch(ctx context.Context, customerIDs []string) ([]*models.Customer, error)

	// GetVerificationData получает верификационные данные клиента (возраст аккаунта, KYC)
	GetVerificationData(ctx context.Context, customerID string) (*models.CustomerVerification, error)
}

// WalletLookup определяет интерфейс поиска кошельков (REST wallet-сервиса)
type WalletLookup interface {
	// GetWalletByCustomerAndCurrency получает кошелек клиента в указанной валюте
	GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error)

	// GetWalletsBatch получает кошельки нескольких клиентов в указанной валюте
	GetWalletsBatch(ctx context.Context, customerIDs []string, currency string) ([]*models.Wallet, error)
}
