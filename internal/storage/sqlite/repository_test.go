package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/storage"
)

func setupStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewMemoryConnection()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedWallet(t *testing.T, s *SQLiteStorage, id, customerID, currency string) *models.Wallet {
	t.Helper()
	w := models.NewWallet(id, customerID, "W"+id, currency)
	require.NoError(t, s.CreateWallet(context.Background(), w))
	return w
}

func TestCreateAndGetWallet(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	seedWallet(t, s, "wal_1", "cust_1", "TRY")

	got, err := s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cust_1", got.CustomerID)
	assert.Equal(t, "TRY", got.Currency())
	assert.True(t, got.Balance.IsZero())
	assert.True(t, got.IsActive)
	assert.EqualValues(t, 1, got.Version)
}

func TestGetWalletByID_NotFound(t *testing.T) {
	s := setupStorage(t)

	got, err := s.GetWalletByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetWalletByCustomerAndCurrency(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	seedWallet(t, s, "wal_try", "cust_1", "TRY")
	seedWallet(t, s, "wal_usd", "cust_1", "USD")

	got, err := s.GetWalletByCustomerAndCurrency(ctx, "cust_1", "USD")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wal_usd", got.ID)

	got, err = s.GetWalletByCustomerAndCurrency(ctx, "cust_1", "EUR")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetWalletsByCustomer(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	seedWallet(t, s, "wal_1", "cust_1", "TRY")
	seedWallet(t, s, "wal_2", "cust_1", "USD")
	seedWallet(t, s, "wal_3", "cust_2", "TRY")

	wallets, err := s.GetWalletsByCustomer(ctx, "cust_1")
	require.NoError(t, err)
	assert.Len(t, wallets, 2)
}

func TestUpdateWallet(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	w := seedWallet(t, s, "wal_1", "cust_1", "TRY")
	money, _ := models.NewMoneyFromString("750.50", "TRY")
	require.True(t, w.Deposit(money).OK())
	require.True(t, w.UpdateLastTransaction("txn_1:credit").OK())

	require.NoError(t, s.UpdateWallet(ctx, w))
	assert.EqualValues(t, 2, w.Version)

	got, err := s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)
	assert.Equal(t, "750.5", got.Balance.Amount.String())
	assert.Equal(t, "txn_1:credit", got.LastTransactionID)
	require.NotNil(t, got.LastTransactionAt)
	assert.EqualValues(t, 2, got.Version)
}

func TestUpdateWallet_VersionConflict(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	seedWallet(t, s, "wal_1", "cust_1", "TRY")

	// Два читателя получают одну и ту же версию
	first, err := s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)
	second, err := s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)

	money, _ := models.NewMoneyFromString("100", "TRY")
	require.True(t, first.Deposit(money).OK())
	require.NoError(t, s.UpdateWallet(ctx, first))

	// Второй писатель со stale-версией отклоняется
	require.True(t, second.Deposit(money).OK())
	err = s.UpdateWallet(ctx, second)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	got, err := s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)
	assert.Equal(t, "100", got.Balance.Amount.String())
}

func TestDeletedWalletInvisibleToCustomerLookups(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	w := seedWallet(t, s, "wal_1", "cust_1", "TRY")
	require.True(t, w.SoftDelete().OK())
	require.NoError(t, s.UpdateWallet(ctx, w))

	got, err := s.GetWalletByCustomerAndCurrency(ctx, "cust_1", "TRY")
	require.NoError(t, err)
	assert.Nil(t, got)

	wallets, err := s.GetWalletsByCustomer(ctx, "cust_1")
	require.NoError(t, err)
	assert.Empty(t, wallets)

	// Прямой lookup по id продолжает находить строку
	got, err = s.GetWalletByID(ctx, "wal_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)
}

func testSaga(correlationID string) *models.TransferSaga {
	return &models.TransferSaga{
		CorrelationID:          correlationID,
		TransactionID:          "txn_001",
		CurrentState:           models.StatePending,
		SenderCustomerID:       "cust_sender",
		SenderCustomerNumber:   "C-100",
		ReceiverCustomerID:     "cust_receiver",
		ReceiverCustomerNumber: "C-200",
		SenderWalletID:         "wal_sender",
		ReceiverWalletID:       "wal_receiver",
		Amount:                 decimal.RequireFromString("250.00"),
		Currency:               "TRY",
		CreatedAt:              time.Now().UTC(),
	}
}

func TestCreateAndGetSaga(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateSaga(ctx, testSaga("corr-1")))

	got, err := s.GetSagaByCorrelationID(ctx, "corr-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatePending, got.CurrentState)
	assert.Equal(t, "wal_sender", got.SenderWalletID)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("250")))
	assert.Nil(t, got.FailureReason)
	assert.Nil(t, got.CompletedAt)
}

func TestGetSaga_NotFound(t *testing.T) {
	s := setupStorage(t)

	got, err := s.GetSagaByCorrelationID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateSagaState(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	saga := testSaga("corr-1")
	require.NoError(t, s.CreateSaga(ctx, saga))

	reason := "insufficient balance"
	saga.CurrentState = models.StateFailed
	saga.FailureReason = &reason
	require.NoError(t, s.UpdateSagaState(ctx, saga))

	got, err := s.GetSagaByCorrelationID(ctx, "corr-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, got.CurrentState)
	require.NotNil(t, got.FailureReason)
	assert.Equal(t, reason, *got.FailureReason)
}

func TestUpdateSagaState_Completed(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	saga := testSaga("corr-1")
	require.NoError(t, s.CreateSaga(ctx, saga))

	now := time.Now().UTC()
	saga.CurrentState = models.StateCompleted
	saga.CompletedAt = &now
	require.NoError(t, s.UpdateSagaState(ctx, saga))

	got, err := s.GetSagaByCorrelationID(ctx, "corr-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, got.CurrentState)
	require.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.FailureReason)
}

func TestGetRecentSagas(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	for i, id := range []string{"corr-1", "corr-2", "corr-3"} {
		saga := testSaga(id)
		saga.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, s.CreateSaga(ctx, saga))
	}

	sagas, err := s.GetRecentSagas(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sagas, 2)
	assert.Equal(t, "corr-3", sagas[0].CorrelationID)
}

func TestSeedDefaultRules(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SeedDefaultRules(ctx))

	records, err := s.ActiveRules(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Отсортированы по приоритету
	assert.Equal(t, models.RuleKindRiskyHour, records[0].Kind)
	assert.Equal(t, models.RuleKindAccountAge, records[1].Kind)
	assert.Equal(t, models.RuleKindKycLevel, records[2].Kind)

	// Повторный seed не дублирует правила
	require.NoError(t, s.SeedDefaultRules(ctx))
	records, err = s.ActiveRules(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestActiveRules_SkipsInactive(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SeedDefaultRules(ctx))
	_, err := s.DB.ExecContext(ctx, `UPDATE fraud_rules SET is_active = 0 WHERE kind = ?`, models.RuleKindKycLevel)
	require.NoError(t, err)

	records, err := s.ActiveRules(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
