package transfer

import (
	"log"

	"wallet-transfer-system/internal/clients"
	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/saga"
	"wallet-transfer-system/internal/services"
	"wallet-transfer-system/internal/storage"
	"wallet-transfer-system/internal/storage/sqlite"
)

// Dependencies содержит все зависимости transfer-сервиса
type Dependencies struct {
	StorageConn     *sqlite.SQLiteStorage
	SagaRepo        storage.SagaRepository
	Producer        kafka.Producer
	StateMachine    *saga.StateMachine
	TransferService services.TransferService
	KafkaConsumer   kafka.Consumer
}

// InitializeDependencies инициализирует все зависимости transfer-сервиса
func InitializeDependencies(cfg *config.Config) (*Dependencies, error) {
	// Инициализация SQLite
	storageConn, err := sqlite.NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	sagaRepo := sqlite.NewSagaRepository(storageConn)

	// Инициализация Kafka Producer
	log.Println("Connecting to Kafka...")
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka producer connected successfully")

	// Lookup-клиенты внешних сервисов
	customerClient := clients.NewCustomerClient(cfg.Customer.ServiceURL)
	walletClient := clients.NewWalletClient(cfg.Customer.WalletLookupURL)

	transferService := services.NewTransferService(sagaRepo, customerClient, walletClient, producer, cfg.Kafka)

	// Машина состояний саги обрабатывает события из transfer events topic
	stateMachine := saga.NewStateMachine(sagaRepo, producer, cfg.Kafka)

	consumer, err := kafka.NewConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.TransferGroupID,
		[]string{cfg.Kafka.TransferEventsTopic},
		stateMachine.Handle,
	)
	if err != nil {
		return nil, err
	}
	log.Println("Kafka consumer connected successfully")

	return &Dependencies{
		StorageConn:     storageConn,
		SagaRepo:        sagaRepo,
		Producer:        producer,
		StateMachine:    stateMachine,
		TransferService: transferService,
		KafkaConsumer:   consumer,
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
