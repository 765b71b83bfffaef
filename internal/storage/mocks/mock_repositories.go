package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wallet-transfer-system/internal/models"
)

// MockWalletRepository является моком для storage.WalletRepository интерфейса
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByID(ctx context.Context, walletID string) (*models.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, customerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletsByCustomer(ctx context.Context, customerID string) ([]*models.Wallet, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// MockSagaRepository является моком для storage.SagaRepository интерфейса
type MockSagaRepository struct {
	mock.Mock
}

func (m *MockSagaRepository) CreateSaga(ctx context.Context, saga *models.TransferSaga) error {
	args := m.Called(ctx, saga)
	return args.Error(0)
}

func (m *MockSagaRepository) GetSagaByCorrelationID(ctx context.Context, correlationID string) (*models.TransferSaga, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferSaga), args.Error(1)
}

func (m *MockSagaRepository) UpdateSagaState(ctx context.Context, saga *models.TransferSaga) error {
	args := m.Called(ctx, saga)
	return args.Error(0)
}

func (m *MockSagaRepository) GetRecentSagas(ctx context.Context, limit int) ([]*models.TransferSaga, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransferSaga), args.Error(1)
}

// MockRuleRepository является моком для storage.RuleRepository интерфейса
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) ActiveRules(ctx context.Context) ([]*models.FraudRuleRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudRuleRecord), args.Error(1)
}

func (m *MockRuleRepository) SeedDefaultRules(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
