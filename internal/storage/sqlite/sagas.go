package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wallet-transfer-system/internal/models"
)

const sagaColumns = `correlation_id, transaction_id, current_state,
	sender_customer_id, sender_customer_number, receiver_customer_id, receiver_customer_number,
	sender_wallet_id, receiver_wallet_id, amount, currency, failure_reason, created_at, completed_at`

// CreateSaga сохраняет новый экземпляр саги
func (s *SQLiteStorage) CreateSaga(ctx context.Context, saga *models.TransferSaga) error {
	query := `
		INSERT INTO transfer_sagas (
			correlation_id, transaction_id, current_state,
			sender_customer_id, sender_customer_number, receiver_customer_id, receiver_customer_number,
			sender_wallet_id, receiver_wallet_id, amount, currency, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return retryOperation(func() error {
		_, err := s.DB.ExecContext(ctx, query,
			saga.CorrelationID, saga.TransactionID, string(saga.CurrentState),
			saga.SenderCustomerID, saga.SenderCustomerNumber,
			saga.ReceiverCustomerID, saga.ReceiverCustomerNumber,
			saga.SenderWalletID, saga.ReceiverWalletID,
			saga.Amount.String(), saga.Currency, saga.CreatedAt,
		)
		return err
	}, 3, 50*time.Millisecond)
}

// GetSagaByCorrelationID получает экземпляр саги по correlation id
func (s *SQLiteStorage) GetSagaByCorrelationID(ctx context.Context, correlationID string) (*models.TransferSaga, error) {
	query := fmt.Sprintf(`SELECT %s FROM transfer_sagas WHERE correlation_id = ?`, sagaColumns)
	return s.scanSaga(s.DB.QueryRowContext(ctx, query, correlationID))
}

// UpdateSagaState записывает состояние, причину отказа и время завершения экземпляра
func (s *SQLiteStorage) UpdateSagaState(ctx context.Context, saga *models.TransferSaga) error {
	query := `
		UPDATE transfer_sagas
		SET current_state = ?, failure_reason = ?, completed_at = ?
		WHERE correlation_id = ?
	`

	return retryOperation(func() error {
		_, err := s.DB.ExecContext(ctx, query,
			string(saga.CurrentState), saga.FailureReason, saga.CompletedAt, saga.CorrelationID)
		return err
	}, 3, 50*time.Millisecond)
}

// GetRecentSagas получает последние экземпляры саг
func (s *SQLiteStorage) GetRecentSagas(ctx context.Context, limit int) ([]*models.TransferSaga, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM transfer_sagas ORDER BY created_at DESC LIMIT ?`, sagaColumns)

	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sagas []*models.TransferSaga
	for rows.Next() {
		saga, err := s.scanSaga(rows)
		if err != nil {
			return nil, err
		}
		sagas = append(sagas, saga)
	}
	return sagas, rows.Err()
}

func (s *SQLiteStorage) scanSaga(row rowScanner) (*models.TransferSaga, error) {
	var (
		saga          models.TransferSaga
		state         string
		amount        decimal.Decimal
		failureReason sql.NullString
		completedAt   sql.NullTime
	)

	err := row.Scan(
		&saga.CorrelationID, &saga.TransactionID, &state,
		&saga.SenderCustomerID, &saga.SenderCustomerNumber,
		&saga.ReceiverCustomerID, &saga.ReceiverCustomerNumber,
		&saga.SenderWalletID, &saga.ReceiverWalletID,
		&amount, &saga.Currency, &failureReason, &saga.CreatedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	saga.CurrentState = models.TransferState(state)
	saga.Amount = amount
	if failureReason.Valid {
		reason := failureReason.String
		saga.FailureReason = &reason
	}
	if completedAt.Valid {
		t := completedAt.Time
		saga.CompletedAt = &t
	}
	return &saga, nil
}
