package sqlite

// initSchema инициализирует схему БД
func (s *SQLiteStorage) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		wallet_number TEXT UNIQUE NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		available_balance TEXT NOT NULL DEFAULT '0',
		currency TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		is_frozen INTEGER NOT NULL DEFAULT 0,
		is_closed INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		last_transaction_id TEXT,
		last_transaction_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		closed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_wallets_customer_id ON wallets(customer_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_wallets_customer_currency
		ON wallets(customer_id, currency) WHERE is_deleted = 0;

	CREATE TABLE IF NOT EXISTS transfer_sagas (
		correlation_id TEXT PRIMARY KEY,
		transaction_id TEXT NOT NULL,
		current_state TEXT NOT NULL,
		sender_customer_id TEXT NOT NULL,
		sender_customer_number TEXT,
		receiver_customer_id TEXT NOT NULL,
		receiver_customer_number TEXT,
		sender_wallet_id TEXT NOT NULL,
		receiver_wallet_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		failure_reason TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_sagas_transaction_id ON transfer_sagas(transaction_id);
	CREATE INDEX IF NOT EXISTS idx_sagas_state ON transfer_sagas(current_state);
	CREATE INDEX IF NOT EXISTS idx_sagas_created_at ON transfer_sagas(created_at);

	CREATE TABLE IF NOT EXISTS fraud_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		priority INTEGER NOT NULL,
		params TEXT NOT NULL DEFAULT '{}',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fraud_rules_active ON fraud_rules(is_active, priority);
	`

	_, err := s.DB.Exec(query)
	return err
}
