package fraudcheck

import (
	"context"
	"log"

	"wallet-transfer-system/internal/clients"
	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/redis"
	"wallet-transfer-system/internal/services"
	"wallet-transfer-system/internal/storage"
	"wallet-transfer-system/internal/storage/sqlite"
)

// Dependencies содержит все зависимости fraud-сервиса
type Dependencies struct {
	StorageConn       *sqlite.SQLiteStorage
	RuleRepo          storage.RuleRepository
	RedisClient       *redis.Client
	Producer          kafka.Producer
	FraudCheckService services.FraudCheckService
	KafkaConsumer     kafka.Consumer
}

// InitializeDependencies инициализирует все зависимости fraud-сервиса
func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	// Инициализация SQLite
	storageConn, err := sqlite.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	ruleRepo := sqlite.NewRuleRepository(storageConn)

	// Правила по умолчанию вставляются только в пустую таблицу
	if err := ruleRepo.SeedDefaultRules(context.Background()); err != nil {
		log.Printf("Warning: Failed to seed default rules: %v", err)
	} else {
		log.Println("Fraud rules seeded")
	}

	// Инициализация Redis
	log.Println("Connecting to Redis...")
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Redis connection established")

	// Инициализация Kafka Producer
	log.Println("Connecting to Kafka...")
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka producer connected successfully")

	customerClient := clients.NewCustomerClient(cfg.Customer.ServiceURL)

	fraudCheckService := services.NewFraudCheckService(ruleRepo, customerClient, redisClient, producer, cfg.Kafka)

	consumer, err := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.FraudGroupID,
		[]string{cfg.Kafka.FraudCommandsTopic},
		fraudCheckService.HandleCommand,
	)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka consumer connected successfully")

	return &Dependencies{
		StorageConn:       storageConn,
		RuleRepo:          ruleRepo,
		RedisClient:       redisClient,
		Producer:          producer,
		FraudCheckService: fraudCheckService,
		KafkaConsumer:     consumer,
	}, nil
}

// Close закрывает все соединения
func (d *Dependencies) Close() error {
	if d.KafkaConsumer != nil {
		if err := d.KafkaConsumer.Close(); err != nil {
			return err
		}
	}
	if d.Producer != nil {
		if err := d.Producer.Close(); err != nil {
			return err
		}
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			return err
		}
	}
	if d.StorageConn != nil {
		if err := d.StorageConn.Close(); err != nil {
			return err
		}
	}
	return nil
}
