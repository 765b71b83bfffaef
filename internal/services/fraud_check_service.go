package services

import (
	"context"
	"fmt"
	"log"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/fraud"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/logger"
	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/redis"
	"wallet-transfer-system/internal/storage"
)

const fraudServiceName = "fraud-service"

// FraudCheckServiceImpl реализует интерфейс FraudCheckService
type FraudCheckServiceImpl struct {
	engine   *fraud.Engine
	redis    redis.ClientInterface
	producer kafka.Producer
	topics   config.KafkaConfig
}

// NewFraudCheckService создает сервис fraud-проверки. Движок читает правила
// через кэширующий провайдер: Redis с коротким TTL поверх SQLite.
func NewFraudCheckService(
	rules storage.RuleRepository,
	customers fraud.VerificationLookup,
	redisClient redis.ClientInterface,
	producer kafka.Producer,
	topics config.KafkaConfig,
) FraudCheckService {
	provider := &cachedRuleProvider{rules: rules, redis: redisClient}
	return &FraudCheckServiceImpl{
		engine:   fraud.NewEngine(provider, customers),
		redis:    redisClient,
		producer: producer,
		topics:   topics,
	}
}

// HandleCommand обрабатывает команду check_fraud и публикует решение
func (s *FraudCheckServiceImpl) HandleCommand(ctx context.Context, msg *models.Message) error {
	if msg.EventType != models.MsgCheckFraud {
		log.Printf("Ignoring unknown command %q for %s", msg.EventType, msg.CorrelationID)
		return nil
	}

	logger.LogEvent(logger.EventKafkaReceived, fraudServiceName, "kafka", map[string]interface{}{
		"correlation_id": msg.CorrelationID,
		"event_id":       msg.EventID,
	})

	var cmd models.CheckFraud
	if err := msg.Decode(&cmd); err != nil {
		return err
	}

	decision, err := s.engine.Evaluate(ctx, &cmd)
	if err != nil {
		return fmt.Errorf("fraud evaluation failed for %s: %w", cmd.CorrelationID, err)
	}

	// Сначала публикация, потом маркер: упавшая публикация оставляет команду
	// retryable, а повторная публикация дубликата безвредна - сага отбрасывает
	// событие, не совпадающее с ее текущим состоянием
	if decision.Approved {
		logger.LogEvent(logger.EventFraudApproved, fraudServiceName, "engine", map[string]interface{}{
			"correlation_id": cmd.CorrelationID,
		})
		err = s.publishDecision(models.MsgFraudCheckApproved, cmd.CorrelationID,
			&models.FraudCheckApproved{CorrelationID: cmd.CorrelationID})
	} else {
		logger.LogEvent(logger.EventFraudDeclined, fraudServiceName, "engine", map[string]interface{}{
			"correlation_id": cmd.CorrelationID,
			"reason":         decision.Reason,
		})
		err = s.publishDecision(models.MsgFraudCheckDeclined, cmd.CorrelationID,
			&models.FraudCheckDeclined{CorrelationID: cmd.CorrelationID, Reason: decision.Reason})
	}
	if err != nil {
		return err
	}

	// Маркер защищает статистику и сохраненное решение от двойного учета
	// при повторной доставке уже опубликованной команды
	first, err := s.redis.MarkProcessed(ctx, cmd.CorrelationID, models.MsgCheckFraud)
	if err != nil {
		log.Printf("Error marking %s processed: %v", cmd.CorrelationID, err)
	} else if !first {
		logger.LogEvent(logger.EventDuplicateDropped, fraudServiceName, "redis", map[string]interface{}{
			"correlation_id": cmd.CorrelationID,
		})
		return nil
	}

	if err := s.redis.SaveDecision(ctx, cmd.CorrelationID, decision); err != nil {
		log.Printf("Error saving decision for %s: %v", cmd.CorrelationID, err)
	}
	if err := s.redis.IncrementDecisionStats(ctx, decision.Approved); err != nil {
		log.Printf("Error updating decision stats: %v", err)
	}
	return nil
}

func (s *FraudCheckServiceImpl) publishDecision(eventType, correlationID string, payload interface{}) error {
	msg, err := models.NewMessage(eventType, correlationID, payload)
	if err != nil {
		return err
	}
	if err := s.producer.Publish(s.topics.TransferEventsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", eventType, correlationID, err)
	}
	return nil
}

// cachedRuleProvider читает активные правила из Redis-кэша,
// при промахе загружает из хранилища и наполняет кэш
type cachedRuleProvider struct {
	rules storage.RuleRepository
	redis redis.ClientInterface
}

func (p *cachedRuleProvider) ActiveRules(ctx context.Context) ([]*models.FraudRuleRecord, error) {
	cached, err := p.redis.GetCachedRules(ctx)
	if err != nil {
		log.Printf("Error reading rule cache: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	records, err := p.rules.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.redis.CacheActiveRules(ctx, records); err != nil {
		log.Printf("Error caching active rules: %v", err)
	}
	return records, nil
}
