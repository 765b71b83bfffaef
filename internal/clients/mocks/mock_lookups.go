package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wallet-transfer-system/internal/models"
)

// MockCustomerLookup является моком для clients.CustomerLookup интерфейса
type MockCustomerLookup struct {
	mock.Mock
}

func (m *MockCustomerLookup) GetCustomerByID(ctx context.Context, customerID string) (*models.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerLookup) GetCustomerByNumber(ctx context.Context, customerNumber string) (*models.Customer, error) {
	args := m.Called(ctx, customerNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerLookup) GetCustomersBatch(ctx context.Context, customerIDs []string) ([]*models.Customer, error) {
	args := m.Called(ctx, customerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Customer), args.Error(1)
}

func (m *MockCustomerLookup) GetVerificationData(ctx context.Context, customerID string) (*models.CustomerVerification, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerVerification), args.Error(1)
}

// MockWalletLookup является моком для clients.WalletLookup интерфейса
type MockWalletLookup struct {
	mock.Mock
}

func (m *MockWalletLookup) GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	args := m.Called(ctx, customerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletLookup) GetWalletsBatch(ctx context.Context, customerIDs []string, currency string) ([]*models.Wallet, error) {
	args := m.Called(ctx, customerIDs, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wallet), args.Error(1)
}
