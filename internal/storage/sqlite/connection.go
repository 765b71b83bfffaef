package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wallet-transfer-system/internal/config"
)

// SQLiteStorage представляет хранилище SQLite
type SQLiteStorage struct {
	DB *sql.DB
}

// NewConnection создает новое соединение с SQLite
func NewConnection(cfg *config.Config) (*SQLiteStorage, error) {
	dbPath := cfg.DB.DBPath
	if dbPath == "" {
		dbPath = "./data/wallet_transfer.db"
	}

	// Создаем директорию, если её нет
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=1", dbPath)

	log.Printf("Connecting to SQLite: path=%s", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite поддерживает только одно соединение для записи
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	storage := &SQLiteStorage{DB: db}
	if err := storage.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Println("SQLite connection established")
	return storage, nil
}

// NewMemoryConnection создает хранилище в памяти (для тестов)
func NewMemoryConnection() (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", "file::memory:?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	storage := &SQLiteStorage{DB: db}
	if err := storage.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close закрывает соединение с базой
func (s *SQLiteStorage) Close() error {
	return s.DB.Close()
}
