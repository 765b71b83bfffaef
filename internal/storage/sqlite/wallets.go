package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/storage"
)

const walletColumns = `id, customer_id, wallet_number, balance, available_balance, currency,
	is_active, is_frozen, is_closed, is_deleted, last_transaction_id, last_transaction_at,
	version, created_at, updated_at, closed_at`

// CreateWallet сохраняет новый кошелек
func (s *SQLiteStorage) CreateWallet(ctx context.Context, w *models.Wallet) error {
	query := `
		INSERT INTO wallets (
			id, customer_id, wallet_number, balance, available_balance, currency,
			is_active, is_frozen, is_closed, is_deleted, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return retryOperation(func() error {
		_, err := s.DB.ExecContext(ctx, query,
			w.ID, w.CustomerID, w.WalletNumber,
			w.Balance.Amount.String(), w.AvailableBalance.Amount.String(), w.Currency(),
			w.IsActive, w.IsFrozen, w.IsClosed, w.IsDeleted,
			w.Version, w.CreatedAt, w.UpdatedAt,
		)
		return err
	}, 3, 50*time.Millisecond)
}

// GetWalletByID получает кошелек по идентификатору
func (s *SQLiteStorage) GetWalletByID(ctx context.Context, walletID string) (*models.Wallet, error) {
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE id = ?`, walletColumns)
	return s.scanWallet(s.DB.QueryRowContext(ctx, query, walletID))
}

// GetWalletByCustomerAndCurrency получает кошелек клиента в указанной валюте
func (s *SQLiteStorage) GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM wallets WHERE customer_id = ? AND currency = ? AND is_deleted = 0`,
		walletColumns)
	return s.scanWallet(s.DB.QueryRowContext(ctx, query, customerID, currency))
}

// GetWalletsByCustomer получает все кошельки клиента
func (s *SQLiteStorage) GetWalletsByCustomer(ctx context.Context, customerID string) ([]*models.Wallet, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM wallets WHERE customer_id = ? AND is_deleted = 0 ORDER BY created_at`,
		walletColumns)

	rows, err := s.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []*models.Wallet
	for rows.Next() {
		w, err := s.scanWallet(rows)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// UpdateWallet записывает кошелек с проверкой версии строки.
// Версия строки - optimistic concurrency token: если она изменилась
// между чтением и записью, другой писатель успел раньше и запись отклоняется.
func (s *SQLiteStorage) UpdateWallet(ctx context.Context, w *models.Wallet) error {
	query := `
		UPDATE wallets SET
			balance = ?, available_balance = ?,
			is_active = ?, is_frozen = ?, is_closed = ?, is_deleted = ?,
			last_transaction_id = ?, last_transaction_at = ?,
			version = version + 1, updated_at = ?, closed_at = ?
		WHERE id = ? AND version = ?
	`

	var lastTxID interface{}
	if w.LastTransactionID != "" {
		lastTxID = w.LastTransactionID
	}

	return retryOperation(func() error {
		result, err := s.DB.ExecContext(ctx, query,
			w.Balance.Amount.String(), w.AvailableBalance.Amount.String(),
			w.IsActive, w.IsFrozen, w.IsClosed, w.IsDeleted,
			lastTxID, w.LastTransactionAt,
			w.UpdatedAt, w.ClosedAt,
			w.ID, w.Version,
		)
		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return storage.ErrVersionConflict
		}

		w.Version++
		return nil
	}, 3, 50*time.Millisecond)
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStorage) scanWallet(row rowScanner) (*models.Wallet, error) {
	var (
		w         models.Wallet
		balance   decimal.Decimal
		available decimal.Decimal
		currency  string
		lastTxID  sql.NullString
		lastTxAt  sql.NullTime
		closedAt  sql.NullTime
	)

	err := row.Scan(
		&w.ID, &w.CustomerID, &w.WalletNumber, &balance, &available, &currency,
		&w.IsActive, &w.IsFrozen, &w.IsClosed, &w.IsDeleted, &lastTxID, &lastTxAt,
		&w.Version, &w.CreatedAt, &w.UpdatedAt, &closedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	w.Balance = models.Money{Amount: balance, Currency: currency}
	w.AvailableBalance = models.Money{Amount: available, Currency: currency}
	if lastTxID.Valid {
		w.LastTransactionID = lastTxID.String
	}
	if lastTxAt.Valid {
		t := lastTxAt.Time
		w.LastTransactionAt = &t
	}
	if closedAt.Valid {
		t := closedAt.Time
		w.ClosedAt = &t
	}
	return &w, nil
}
