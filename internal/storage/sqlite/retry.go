package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// isRetryableError отличает ошибки блокировки от настоящих сбоев.
// Повторять имеет смысл только блокировки: конфликт версий кошелька
// или нарушение схемы повтором не лечатся.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLITE_BUSY (5) - база данных занята другим соединением
	// SQLITE_LOCKED (6) - таблица заблокирована в этом же соединении
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "SQLITE_LOCKED") ||
		strings.Contains(errStr, "locked")
}

// retryOperation выполняет запись с повторами при блокировке базы.
// Пауза между попытками растет линейно: delay, 2*delay, ...
func retryOperation(operation func() error, maxRetries int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Неповторяемую ошибку отдаем сразу, чтобы не маскировать ее паузами
		if !isRetryableError(err) {
			return err
		}

		if i < maxRetries-1 {
			time.Sleep(delay * time.Duration(i+1))
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", maxRetries, lastErr)
}
