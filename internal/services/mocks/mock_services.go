package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/services"
)

// MockTransferService является моком для services.TransferService интерфейса
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) StartTransfer(ctx context.Context, req *services.StartTransferRequest) (*services.StartTransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StartTransferResponse), args.Error(1)
}

func (m *MockTransferService) GetTransferStatus(ctx context.Context, correlationID string) (*models.TransferSaga, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferSaga), args.Error(1)
}

func (m *MockTransferService) GetRecentTransfers(ctx context.Context, limit int) ([]*models.TransferSaga, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransferSaga), args.Error(1)
}

// MockWalletService является моком для services.WalletService интерфейса
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) CreateWallet(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, customerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletService) GetCustomerWallets(ctx context.Context, customerID, currency string) ([]*models.Wallet, error) {
	args := m.Called(ctx, customerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wallet), args.Error(1)
}

func (m *MockWalletService) Deposit(ctx context.Context, walletID string, money models.Money) (*models.Wallet, models.WalletOutcome, error) {
	args := m.Called(ctx, walletID, money)
	var wallet *models.Wallet
	if args.Get(0) != nil {
		wallet = args.Get(0).(*models.Wallet)
	}
	return wallet, args.Get(1).(models.WalletOutcome), args.Error(2)
}

func (m *MockWalletService) Freeze(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(models.WalletOutcome), args.Error(1)
}

func (m *MockWalletService) Unfreeze(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(models.WalletOutcome), args.Error(1)
}

func (m *MockWalletService) CloseWallet(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(models.WalletOutcome), args.Error(1)
}

func (m *MockWalletService) HandleCommand(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
