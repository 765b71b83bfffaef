package storage

import (
	"context"
	"errors"

	"wallet-transfer-system/internal/models"
)

// ErrVersionConflict возвращается при конкурентном изменении кошелька:
// версия строки изменилась между чтением и записью. Вызывающий обязан
// перечитать кошелек и повторить read-modify-write.
var ErrVersionConflict = errors.New("storage: wallet version conflict")

// WalletRepository определяет интерфейс для работы с кошельками в хранилище
type WalletRepository interface {
	// CreateWallet сохраняет новый кошелек
	CreateWallet(ctx context.Context, wallet *models.Wallet) error

	// GetWalletByID получает кошелек по идентификатору; nil, если не найден
	GetWalletByID(ctx context.Context, walletID string) (*models.Wallet, error)

	// GetWalletByCustomerAndCurrency получает кошелек клиента в указанной валюте
	GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error)

	// GetWalletsByCustomer получает все кошельки клиента
	GetWalletsByCustomer(ctx context.Context, customerID string) ([]*models.Wallet, error)

	// UpdateWallet записывает кошелек с проверкой версии строки.
	// Возвращает ErrVersionConflict, если строку успел изменить другой писатель.
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error
}

// SagaRepository определяет интерфейс для работы с экземплярами саги перевода
type SagaRepository interface {
	// CreateSaga сохраняет новый экземпляр саги
	CreateSaga(ctx context.Context, saga *models.TransferSaga) error

	// GetSagaByCorrelationID получает экземпляр по correlation id; nil, если не найден
	GetSagaByCorrelationID(ctx context.Context, correlationID string) (*models.TransferSaga, error)

	// UpdateSagaState записывает новое состояние экземпляра
	UpdateSagaState(ctx context.Context, saga *models.TransferSaga) error

	// GetRecentSagas получает последние экземпляры саг
	GetRecentSagas(ctx context.Context, limit int) ([]*models.TransferSaga, error)
}

// RuleRepository определяет интерфейс для чтения fraud-правил.
// Администрирование правил выполняется внешней системой; здесь правила
// только читаются и при пустой таблице заполняются набором по умолчанию.
type RuleRepository interface {
	// ActiveRules получает активные правила, отсортированные по приоритету
	ActiveRules(ctx context.Context) ([]*models.FraudRuleRecord, error)

	// SeedDefaultRules вставляет правила по умолчанию, если таблица пуста
	SeedDefaultRules(ctx context.Context) error
}
