package kafka

import (
	"context"

	"wallet-transfer-system/internal/models"
)

// Producer определяет интерфейс для отправки сообщений в Kafka
type Producer interface {
	// Publish отправляет сообщение в указанный топик с ключом correlation id
	Publish(topic string, msg *models.Message) error

	Close() error
}

// Consumer определяет интерфейс для потребления сообщений из Kafka
type Consumer interface {
	// Start запускает цикл потребления до отмены контекста
	Start(ctx context.Context) error

	Close() error
}
