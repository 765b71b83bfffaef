package redis

import (
	"context"

	"wallet-transfer-system/internal/fraud"
	"wallet-transfer-system/internal/models"
)

// ClientInterface определяет интерфейс для работы с Redis
// Это позволяет легко создавать моки для тестирования
// Реализуется типом Client
type ClientInterface interface {
	// MarkProcessed помечает пару correlation id + тип события обработанной;
	// false означает дубликат доставки
	MarkProcessed(ctx context.Context, correlationID, eventType string) (bool, error)

	// CacheActiveRules кэширует активный набор fraud-правил
	CacheActiveRules(ctx context.Context, rules []*models.FraudRuleRecord) error

	// GetCachedRules получает кэшированный набор правил; nil при промахе
	GetCachedRules(ctx context.Context) ([]*models.FraudRuleRecord, error)

	// SaveDecision сохраняет решение fraud-проверки
	SaveDecision(ctx context.Context, correlationID string, decision *fraud.Decision) error

	// GetDecision получает решение по correlation id
	GetDecision(ctx context.Context, correlationID string) (*fraud.Decision, error)

	// IncrementDecisionStats увеличивает счетчик решений
	IncrementDecisionStats(ctx context.Context, approved bool) error

	// GetDecisionStats возвращает счетчики решений
	GetDecisionStats(ctx context.Context) (map[string]int64, error)

	// Close закрывает соединение с Redis
	Close() error
}

// Убеждаемся, что Client реализует ClientInterface
var _ ClientInterface = (*Client)(nil)
