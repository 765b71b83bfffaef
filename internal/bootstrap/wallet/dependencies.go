package wallet

import (
	"log"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/services"
	"wallet-transfer-system/internal/storage"
	"wallet-transfer-system/internal/storage/sqlite"
)

// Dependencies содержит все зависимости wallet-сервиса
type Dependencies struct {
	StorageConn   *sqlite.SQLiteStorage
	WalletRepo    storage.WalletRepository
	Producer      kafka.Producer
	WalletService services.WalletService
	KafkaConsumer kafka.Consumer
}

// InitializeDependencies инициализирует все зависимости wallet-сервиса
func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	// Инициализация SQLite
	storageConn, err := sqlite.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	walletRepo := sqlite.NewWalletRepository(storageConn)

	// Инициализация Kafka Producer
	log.Println("Connecting to Kafka...")
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka producer connected successfully")

	walletService := services.NewWalletService(walletRepo, producer, cfg.Kafka)

	// Consumer команд дебета, кредита и возврата
	consumer, err := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.WalletGroupID,
		[]string{cfg.Kafka.WalletCommandsTopic},
		walletService.HandleCommand,
	)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka consumer connected successfully")

	return &Dependencies{
		StorageConn:   storageConn,
		WalletRepo:    walletRepo,
		Producer:      producer,
		WalletService: walletService,
		KafkaConsumer: consumer,
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
	if d.StorageConn != nil {
		if err := d.StorageConn.Close(); err != nil {
			return err
		}
	}
	return nil
}
