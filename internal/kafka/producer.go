package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/models"
)

type ProducerImpl struct {
	producer sarama.SyncProducer
}

func NewProducer(cfg *config.Config) (Producer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Println("Kafka producer created successfully")
	return &ProducerImpl{producer: producer}, nil
}

// Publish отправляет сообщение в топик. Ключ партиционирования - correlation id,
// чтобы все сообщения одного перевода попадали в одну партицию.
func (p *ProducerImpl) Publish(topic string, msg *models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	producerMsg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(msg.CorrelationID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: msg.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(producerMsg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	log.Printf("Message %s sent to topic %s, partition %d, offset %d",
		msg.EventType, topic, partition, offset)
	return nil
}

func (p *ProducerImpl) Close() error {
	return p.producer.Close()
}
