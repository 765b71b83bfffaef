package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"wallet-transfer-system/internal/models"
)

// Handler обрабатывает одно сообщение. Ошибка обработчика означает
// инфраструктурный сбой: оффсет не помечается, сессия перезапускается
// и сообщение доставляется повторно. Бизнес-отказы путешествуют как
// события, а не как ошибки потребителя.
type Handler func(ctx context.Context, msg *models.Message) error

type ConsumerImpl struct {
	consumer sarama.ConsumerGroup
	topics   []string
	handler  Handler
}

// NewConsumer создает consumer group для указанных топиков
func NewConsumer(brokers []string, groupID string, topics []string, handler Handler) (Consumer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaCfg.Version = sarama.V2_8_0_0

	consumer, err := sarama.NewConsumerGroup(brokers, groupID, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	log.Println("Kafka consumer created successfully")
	return &ConsumerImpl{
		consumer: consumer,
		topics:   topics,
		handler:  handler,
	}, nil
}

func (c *ConsumerImpl) Start(ctx context.Context) error {
	consumerHandler := &consumerGroupHandler{
		handler: c.handler,
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			err := c.consumer.Consume(ctx, c.topics, consumerHandler)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("Error from consumer: %v", err)
				// Пауза перед повторным входом в группу, чтобы не крутить
				// горячий цикл на постоянной ошибке
				time.Sleep(time.Second)
			}
		}
	}()

	go func() {
		for {
			select {
			case err := <-c.consumer.Errors():
				if err != nil {
					log.Printf("Consumer error: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	log.Println("Consumer context cancelled, shutting down...")
	wg.Wait()
	return c.consumer.Close()
}

func (c *ConsumerImpl) Close() error {
	return c.consumer.Close()
}

type consumerGroupHandler struct {
	handler Handler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			var msg models.Message
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				log.Printf("Error unmarshaling message: %v", err)
				session.MarkMessage(message, "")
				continue
			}

			if err := h.handler(session.Context(), &msg); err != nil {
				// Оффсет не помечаем: сессия завершится с ошибкой,
				// и сообщение будет доставлено повторно
				log.Printf("Error handling %s message: %v", msg.EventType, err)
				return err
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
