package sqlite

import (
	"wallet-transfer-system/internal/storage"
)

// Проверяем, что SQLiteStorage реализует интерфейсы хранилища
var (
	_ storage.WalletRepository = (*SQLiteStorage)(nil)
	_ storage.SagaRepository   = (*SQLiteStorage)(nil)
	_ storage.RuleRepository   = (*SQLiteStorage)(nil)
)

// NewWalletRepository возвращает репозиторий кошельков поверх SQLite
func NewWalletRepository(s *SQLiteStorage) storage.WalletRepository {
	return s
}

// NewSagaRepository возвращает репозиторий экземпляров саги поверх SQLite
func NewSagaRepository(s *SQLiteStorage) storage.SagaRepository {
	return s
}

// NewRuleRepository возвращает репозиторий fraud-правил поверх SQLite
func NewRuleRepository(s *SQLiteStorage) storage.RuleRepository {
	return s
}
