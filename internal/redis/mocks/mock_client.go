package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"wallet-transfer-system/internal/fraud"
	"wallet-transfer-system/internal/models"
)

// MockClientInterface является моком для redis.ClientInterface
type MockClientInterface struct {
	mock.Mock
}

func (m *MockClientInterface) MarkProcessed(ctx context.Context, correlationID, eventType string) (bool, error) {
	args := m.Called(ctx, correlationID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientInterface) CacheActiveRules(ctx context.Context, rules []*models.FraudRuleRecord) error {
	args := m.Called(ctx, rules)
	return args.Error(0)
}

func (m *MockClientInterface) GetCachedRules(ctx context.Context) ([]*models.FraudRuleRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FraudRuleRecord), args.Error(1)
}

func (m *MockClientInterface) SaveDecision(ctx context.Context, correlationID string, decision *fraud.Decision) error {
	args := m.Called(ctx, correlationID, decision)
	return args.Error(0)
}

func (m *MockClientInterface) GetDecision(ctx context.Context, correlationID string) (*fraud.Decision, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fraud.Decision), args.Error(1)
}

func (m *MockClientInterface) IncrementDecisionStats(ctx context.Context, approved bool) error {
	args := m.Called(ctx, approved)
	return args.Error(0)
}

func (m *MockClientInterface) GetDecisionStats(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClientInterface) Close() error {
	args := m.Called()
	return args.Error(0)
}
