package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/fraud"
	"wallet-transfer-system/internal/models"
)

const (
	// TTL ключей дедупликации: дольше любого разумного окна redelivery
	processedTTL = 24 * time.Hour
	// TTL кэша правил короткий: изменение правила должно действовать
	// на новые проверки практически немедленно
	ruleCacheTTL = 30 * time.Second
	// TTL кэша решений для lookup-эндпоинта
	decisionTTL = time.Hour

	ruleCacheKey = "fraud:rules:active"
)

type Client struct {
	rdb *redisv9.Client
}

// NewClient создает новое подключение к Redis
func NewClient(cfg *config.Config) (*Client, error) {
	rdb := redisv9.NewClient(&redisv9.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close закрывает соединение с Redis
func (c *Client) Close() error {
	return c.rdb.Close()
}

// MarkProcessed помечает пару correlation id + тип события обработанной.
// Возвращает false, если пара уже была помечена (дубликат доставки).
func (c *Client) MarkProcessed(ctx context.Context, correlationID, eventType string) (bool, error) {
	key := fmt.Sprintf("inbox:%s:%s", correlationID, eventType)
	first, err := c.rdb.SetNX(ctx, key, 1, processedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message processed: %w", err)
	}
	return first, nil
}

// CacheActiveRules кэширует активный набор fraud-правил
func (c *Client) CacheActiveRules(ctx context.Context, rules []*models.FraudRuleRecord) error {
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	return c.rdb.Set(ctx, ruleCacheKey, data, ruleCacheTTL).Err()
}

// GetCachedRules получает кэшированный набор правил; nil при промахе
func (c *Client) GetCachedRules(ctx context.Context) ([]*models.FraudRuleRecord, error) {
	data, err := c.rdb.Get(ctx, ruleCacheKey).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached rules: %w", err)
	}

	var rules []*models.FraudRuleRecord
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached rules: %w", err)
	}
	return rules, nil
}

// SaveDecision сохраняет решение fraud-проверки для lookup-эндпоинта
func (c *Client) SaveDecision(ctx context.Context, correlationID string, decision *fraud.Decision) error {
	key := fmt.Sprintf("fraud:%s:decision", correlationID)

	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}
	return c.rdb.Set(ctx, key, data, decisionTTL).Err()
}

// GetDecision получает решение по correlation id; nil, если не найдено
func (c *Client) GetDecision(ctx context.Context, correlationID string) (*fraud.Decision, error) {
	key := fmt.Sprintf("fraud:%s:decision", correlationID)

	data, err := c.rdb.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	var decision fraud.Decision
	if err := json.Unmarshal([]byte(data), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
	}
	return &decision, nil
}

// IncrementDecisionStats увеличивает счетчик решений (approved/declined)
func (c *Client) IncrementDecisionStats(ctx context.Context, approved bool) error {
	key := "fraud:stats:approved"
	if !approved {
		key = "fraud:stats:declined"
	}
	return c.rdb.Incr(ctx, key).Err()
}

// GetDecisionStats возвращает счетчики решений
func (c *Client) GetDecisionStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, name := range []string{"approved", "declined"} {
		val, err := c.rdb.Get(ctx, "fraud:stats:"+name).Int64()
		if err == redisv9.Nil {
			val = 0
		} else if err != nil {
			return nil, fmt.Errorf("failed to get decision stats: %w", err)
		}
		stats[name] = val
	}
	return stats, nil
}
