package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Server   ServerConfig
	Customer CustomerConfig
}

type DBConfig struct {
	DBPath string // Путь к файлу SQLite
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type KafkaConfig struct {
	Brokers             []string
	TransferEventsTopic string // входящие события саги (старт и ответы шагов)
	WalletCommandsTopic string // команды wallet-сервису
	FraudCommandsTopic  string // команды fraud-сервису
	BalanceUpdatesTopic string // широковещательные обновления балансов
	TransferGroupID     string
	WalletGroupID       string
	FraudGroupID        string
}

type ServerConfig struct {
	TransferPort int
	WalletPort   int
	FraudPort    int
}

type CustomerConfig struct {
	ServiceURL      string // базовый URL внешнего сервиса клиентов
	WalletLookupURL string // базовый URL wallet-сервиса для lookup-запросов
}

func Load() *Config {
	// Загружаем .env файл, если он существует
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		DB: DBConfig{
			DBPath: getEnv("DB_PATH", "./data/wallet_transfer.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:             []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			TransferEventsTopic: getEnv("KAFKA_TRANSFER_EVENTS_TOPIC", "wallet.transfer.events"),
			WalletCommandsTopic: getEnv("KAFKA_WALLET_COMMANDS_TOPIC", "wallet.commands"),
			FraudCommandsTopic:  getEnv("KAFKA_FRAUD_COMMANDS_TOPIC", "fraud.commands"),
			BalanceUpdatesTopic: getEnv("KAFKA_BALANCE_UPDATES_TOPIC", "wallet.balance.updates"),
			TransferGroupID:     getEnv("KAFKA_TRANSFER_GROUP", "transfer-saga-group"),
			WalletGroupID:       getEnv("KAFKA_WALLET_GROUP", "wallet-service-group"),
			FraudGroupID:        getEnv("KAFKA_FRAUD_GROUP", "fraud-service-group"),
		},
		Server: ServerConfig{
			TransferPort: getEnvAsInt("TRANSFER_SERVICE_PORT", 8080),
			WalletPort:   getEnvAsInt("WALLET_SERVICE_PORT", 8081),
			FraudPort:    getEnvAsInt("FRAUD_SERVICE_PORT", 8082),
		},
		Customer: CustomerConfig{
			ServiceURL:      getEnv("CUSTOMER_SERVICE_URL", "http://localhost:9090"),
			WalletLookupURL: getEnv("WALLET_LOOKUP_URL", "http://localhost:8081"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
