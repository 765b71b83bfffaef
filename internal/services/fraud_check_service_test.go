package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clientmocks "wallet-transfer-system/internal/clients/mocks"
	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/fraud"
	kafkamocks "wallet-transfer-system/internal/kafka/mocks"
	"wallet-transfer-system/internal/models"
	redismocks "wallet-transfer-system/internal/redis/mocks"
	storagemocks "wallet-transfer-system/internal/storage/mocks"
)

type fraudCheckFixture struct {
	service   FraudCheckService
	rules     *storagemocks.MockRuleRepository
	customers *clientmocks.MockCustomerLookup
	redis     *redismocks.MockClientInterface
	producer  *kafkamocks.MockProducer
}

func newFraudCheckFixture() *fraudCheckFixture {
	f := &fraudCheckFixture{
		rules:     new(storagemocks.MockRuleRepository),
		customers: new(clientmocks.MockCustomerLookup),
		redis:     new(redismocks.MockClientInterface),
		producer:  new(kafkamocks.MockProducer),
	}
	topics := config.KafkaConfig{TransferEventsTopic: "wallet.transfer.events"}
	f.service = NewFraudCheckService(f.rules, f.customers, f.redis, f.producer, topics)
	return f
}

func checkFraudMessage(t *testing.T, amount, ip string) *models.Message {
	t.Helper()
	msg, err := models.NewMessage(models.MsgCheckFraud, "corr-1", &models.CheckFraud{
		CorrelationID:      "corr-1",
		SenderCustomerID:   "cust_sender",
		ReceiverCustomerID: "cust_receiver",
		Amount:             decimal.RequireFromString(amount),
		Currency:           "TRY",
		ClientIPAddress:    ip,
	})
	require.NoError(t, err)
	return msg
}

func blockedIPRecord(ip string) *models.FraudRuleRecord {
	return &models.FraudRuleRecord{
		ID:       1,
		Kind:     models.RuleKindBlockedIP,
		Priority: fraud.PriorityBlockedIP,
		Params:   json.RawMessage(`{"ip_address": "` + ip + `", "reason": "blocked source"}`),
		IsActive: true,
	}
}

func TestFraudCheck_ApprovedPublished(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return(nil, nil)
	f.rules.On("ActiveRules", mock.Anything).Return([]*models.FraudRuleRecord{blockedIPRecord("203.0.113.7")}, nil)
	f.redis.On("CacheActiveRules", mock.Anything, mock.Anything).Return(nil)
	f.redis.On("MarkProcessed", mock.Anything, "corr-1", models.MsgCheckFraud).Return(true, nil)
	f.redis.On("SaveDecision", mock.Anything, "corr-1", mock.MatchedBy(func(d *fraud.Decision) bool {
		return d.Approved
	})).Return(nil)
	f.redis.On("IncrementDecisionStats", mock.Anything, true).Return(nil)
	f.producer.On("Publish", "wallet.transfer.events", mock.MatchedBy(func(m *models.Message) bool {
		return m.EventType == models.MsgFraudCheckApproved && m.CorrelationID == "corr-1"
	})).Return(nil)

	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", "198.51.100.1"))
	require.NoError(t, err)

	f.producer.AssertExpectations(t)
	f.redis.AssertExpectations(t)
}

func TestFraudCheck_DeclinedPublishedWithReason(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return(nil, nil)
	f.rules.On("ActiveRules", mock.Anything).Return([]*models.FraudRuleRecord{blockedIPRecord("203.0.113.7")}, nil)
	f.redis.On("CacheActiveRules", mock.Anything, mock.Anything).Return(nil)
	f.redis.On("MarkProcessed", mock.Anything, "corr-1", models.MsgCheckFraud).Return(true, nil)
	f.redis.On("SaveDecision", mock.Anything, "corr-1", mock.Anything).Return(nil)
	f.redis.On("IncrementDecisionStats", mock.Anything, false).Return(nil)
	f.producer.On("Publish", "wallet.transfer.events", mock.MatchedBy(func(m *models.Message) bool {
		if m.EventType != models.MsgFraudCheckDeclined {
			return false
		}
		var event models.FraudCheckDeclined
		if err := m.Decode(&event); err != nil {
			return false
		}
		return event.Reason == "blocked source"
	})).Return(nil)

	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", "203.0.113.7"))
	require.NoError(t, err)

	f.producer.AssertExpectations(t)
}

func TestFraudCheck_DuplicateCommandSkipsBookkeeping(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return([]*models.FraudRuleRecord{}, nil)
	f.producer.On("Publish", "wallet.transfer.events", mock.Anything).Return(nil)
	f.redis.On("MarkProcessed", mock.Anything, "corr-1", models.MsgCheckFraud).Return(false, nil)

	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", ""))
	require.NoError(t, err)

	// Повторная публикация безвредна; статистика и решение не учитываются дважды
	f.producer.AssertNumberOfCalls(t, "Publish", 1)
	f.redis.AssertNotCalled(t, "SaveDecision", mock.Anything, mock.Anything, mock.Anything)
	f.redis.AssertNotCalled(t, "IncrementDecisionStats", mock.Anything, mock.Anything)
}

func TestFraudCheck_PublishFailureKeepsCommandRetryable(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return([]*models.FraudRuleRecord{}, nil)
	f.producer.On("Publish", "wallet.transfer.events", mock.Anything).Return(assert.AnError).Once()

	// Первая доставка: публикация падает, маркер не ставится
	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", ""))
	require.Error(t, err)
	f.redis.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)

	// Повторная доставка публикует решение и завершает обработку
	f.producer.On("Publish", "wallet.transfer.events", mock.MatchedBy(func(m *models.Message) bool {
		return m.EventType == models.MsgFraudCheckApproved && m.CorrelationID == "corr-1"
	})).Return(nil).Once()
	f.redis.On("MarkProcessed", mock.Anything, "corr-1", models.MsgCheckFraud).Return(true, nil)
	f.redis.On("SaveDecision", mock.Anything, "corr-1", mock.Anything).Return(nil)
	f.redis.On("IncrementDecisionStats", mock.Anything, true).Return(nil)

	require.NoError(t, f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", "")))
	f.producer.AssertNumberOfCalls(t, "Publish", 2)
	f.redis.AssertExpectations(t)
}

func TestFraudCheck_EvaluationErrorKeepsCommandRetryable(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return(nil, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, assert.AnError)

	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", ""))
	require.Error(t, err)

	// Команда не помечена обработанной: redelivery попробует еще раз
	f.redis.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestFraudCheck_RuleCacheHitSkipsStorage(t *testing.T) {
	f := newFraudCheckFixture()

	f.redis.On("GetCachedRules", mock.Anything).Return([]*models.FraudRuleRecord{blockedIPRecord("203.0.113.7")}, nil)
	f.redis.On("MarkProcessed", mock.Anything, "corr-1", models.MsgCheckFraud).Return(true, nil)
	f.redis.On("SaveDecision", mock.Anything, "corr-1", mock.Anything).Return(nil)
	f.redis.On("IncrementDecisionStats", mock.Anything, true).Return(nil)
	f.producer.On("Publish", "wallet.transfer.events", mock.Anything).Return(nil)

	err := f.service.HandleCommand(context.Background(), checkFraudMessage(t, "100", ""))
	require.NoError(t, err)

	f.rules.AssertNotCalled(t, "ActiveRules", mock.Anything)
	f.redis.AssertNotCalled(t, "CacheActiveRules", mock.Anything, mock.Anything)
}

func TestFraudCheck_UnknownCommandIgnored(t *testing.T) {
	f := newFraudCheckFixture()

	msg, err := models.NewMessage("unknown_command", "corr-1", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, f.service.HandleCommand(context.Background(), msg))
	f.redis.AssertNotCalled(t, "GetCachedRules", mock.Anything)
}
