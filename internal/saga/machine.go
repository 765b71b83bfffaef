package saga

import (
	"context"
	"fmt"
	"log"
	"time"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/logger"
	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/storage"
)

const serviceName = "transfer-service"

// StateMachine ведет персистентные экземпляры саги перевода.
// Каждое входящее событие коррелируется по correlation id; переход
// выполняется только из ожидаемого текущего состояния - события,
// пришедшие не вовремя (redelivery, reorder), отбрасываются.
type StateMachine struct {
	sagas    storage.SagaRepository
	producer kafka.Producer
	topics   config.KafkaConfig
}

// NewStateMachine создает машину состояний саги
func NewStateMachine(sagas storage.SagaRepository, producer kafka.Producer, topics config.KafkaConfig) *StateMachine {
	return &StateMachine{
		sagas:    sagas,
		producer: producer,
		topics:   topics,
	}
}

// Handle маршрутизирует входящее сообщение в обработчик перехода
func (m *StateMachine) Handle(ctx context.Context, msg *models.Message) error {
	logger.LogEvent(logger.EventKafkaReceived, serviceName, "kafka", map[string]interface{}{
		"correlation_id": msg.CorrelationID,
		"event_type":     msg.EventType,
		"event_id":       msg.EventID,
	})

	switch msg.EventType {
	case models.MsgTransferRequestStarted:
		return m.handleTransferStarted(ctx, msg)
	case models.MsgFraudCheckApproved:
		return m.handleFraudApproved(ctx, msg)
	case models.MsgFraudCheckDeclined:
		return m.handleFraudDeclined(ctx, msg)
	case models.MsgWalletDebited:
		return m.handleWalletDebited(ctx, msg)
	case models.MsgWalletDebitFailed:
		return m.handleWalletDebitFailed(ctx, msg)
	case models.MsgWalletCredited:
		return m.handleWalletCredited(ctx, msg)
	case models.MsgWalletCreditFailed:
		return m.handleWalletCreditFailed(ctx, msg)
	case models.MsgSenderRefunded:
		log.Printf("Sender refunded for transfer %s", msg.CorrelationID)
		return nil
	default:
		log.Printf("Ignoring unknown event type %q for %s", msg.EventType, msg.CorrelationID)
		return nil
	}
}

// handleTransferStarted создает экземпляр саги и запускает fraud-проверку
func (m *StateMachine) handleTransferStarted(ctx context.Context, msg *models.Message) error {
	var event models.TransferRequestStarted
	if err := msg.Decode(&event); err != nil {
		return err
	}

	existing, err := m.sagas.GetSagaByCorrelationID(ctx, msg.CorrelationID)
	if err != nil {
		return fmt.Errorf("failed to look up saga %s: %w", msg.CorrelationID, err)
	}
	if existing != nil {
		// Повторная доставка стартового события
		m.logDuplicate(msg, existing.CurrentState)
		return nil
	}

	saga := &models.TransferSaga{
		CorrelationID:          event.CorrelationID,
		TransactionID:          event.TransactionID,
		CurrentState:           models.StatePending,
		SenderCustomerID:       event.SenderCustomerID,
		SenderCustomerNumber:   event.SenderCustomerNumber,
		ReceiverCustomerID:     event.ReceiverCustomerID,
		ReceiverCustomerNumber: event.ReceiverCustomerNumber,
		SenderWalletID:         event.SenderWalletID,
		ReceiverWalletID:       event.ReceiverWalletID,
		Amount:                 event.Amount,
		Currency:               event.Currency,
		CreatedAt:              time.Now().UTC(),
	}

	if err := m.sagas.CreateSaga(ctx, saga); err != nil {
		return fmt.Errorf("failed to persist saga %s: %w", msg.CorrelationID, err)
	}

	logger.LogEvent(logger.EventTransferStarted, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"transaction_id": saga.TransactionID,
		"amount":         saga.Amount.String(),
		"currency":       saga.Currency,
	})

	return m.publishCommand(m.topics.FraudCommandsTopic, models.MsgCheckFraud, saga.CorrelationID,
		&models.CheckFraud{
			CorrelationID:      saga.CorrelationID,
			SenderCustomerID:   saga.SenderCustomerID,
			ReceiverCustomerID: saga.ReceiverCustomerID,
			Amount:             saga.Amount,
			Currency:           saga.Currency,
			ClientIPAddress:    event.ClientIPAddress,
		})
}

// handleFraudApproved переводит сагу Pending -> SenderDebitPending
// и командует списание с кошелька отправителя
func (m *StateMachine) handleFraudApproved(ctx context.Context, msg *models.Message) error {
	saga, ok, err := m.loadForTransition(ctx, msg, models.StatePending)
	if err != nil || !ok {
		return err
	}

	saga.CurrentState = models.StateSenderDebitPending
	if err := m.sagas.UpdateSagaState(ctx, saga); err != nil {
		return fmt.Errorf("failed to update saga %s: %w", saga.CorrelationID, err)
	}

	logger.LogEvent(logger.EventFraudApproved, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
	})

	return m.publishCommand(m.topics.WalletCommandsTopic, models.MsgDebitSenderWallet, saga.CorrelationID,
		&models.DebitSenderWallet{
			CorrelationID:   saga.CorrelationID,
			OwnerCustomerID: saga.SenderCustomerID,
			Amount:          saga.Amount,
			Currency:        saga.Currency,
			TransactionID:   saga.TransactionID,
		})
}

// handleFraudDeclined завершает сагу отказом без компенсации:
// на этом шаге еще ничего не списано
func (m *StateMachine) handleFraudDeclined(ctx context.Context, msg *models.Message) error {
	var event models.FraudCheckDeclined
	if err := msg.Decode(&event); err != nil {
		return err
	}

	saga, ok, err := m.loadForTransition(ctx, msg, models.StatePending)
	if err != nil || !ok {
		return err
	}

	logger.LogEvent(logger.EventFraudDeclined, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"reason":         event.Reason,
	})

	return m.fail(ctx, saga, event.Reason)
}

// handleWalletDebited переводит сагу SenderDebitPending -> ReceiverCreditPending
// и командует зачисление на кошелек получателя
func (m *StateMachine) handleWalletDebited(ctx context.Context, msg *models.Message) error {
	saga, ok, err := m.loadForTransition(ctx, msg, models.StateSenderDebitPending)
	if err != nil || !ok {
		return err
	}

	saga.CurrentState = models.StateReceiverCreditPending
	if err := m.sagas.UpdateSagaState(ctx, saga); err != nil {
		return fmt.Errorf("failed to update saga %s: %w", saga.CorrelationID, err)
	}

	logger.LogEvent(logger.EventWalletDebited, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"wallet_id":      saga.SenderWalletID,
	})

	return m.publishCommand(m.topics.WalletCommandsTopic, models.MsgCreditWallet, saga.CorrelationID,
		&models.CreditWallet{
			CorrelationID: saga.CorrelationID,
			WalletID:      saga.ReceiverWalletID,
			Amount:        saga.Amount,
			Currency:      saga.Currency,
			TransactionID: saga.TransactionID,
		})
}

// handleWalletDebitFailed завершает сагу отказом: компенсация не нужна,
// списание не состоялось
func (m *StateMachine) handleWalletDebitFailed(ctx context.Context, msg *models.Message) error {
	var event models.WalletDebitFailed
	if err := msg.Decode(&event); err != nil {
		return err
	}

	saga, ok, err := m.loadForTransition(ctx, msg, models.StateSenderDebitPending)
	if err != nil || !ok {
		return err
	}

	return m.fail(ctx, saga, event.Reason)
}

// handleWalletCredited завершает сагу успехом
func (m *StateMachine) handleWalletCredited(ctx context.Context, msg *models.Message) error {
	saga, ok, err := m.loadForTransition(ctx, msg, models.StateReceiverCreditPending)
	if err != nil || !ok {
		return err
	}

	now := time.Now().UTC()
	saga.CurrentState = models.StateCompleted
	saga.CompletedAt = &now
	if err := m.sagas.UpdateSagaState(ctx, saga); err != nil {
		return fmt.Errorf("failed to update saga %s: %w", saga.CorrelationID, err)
	}

	logger.LogEvent(logger.EventSagaCompleted, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"transaction_id": saga.TransactionID,
	})

	log.Printf("Transfer %s completed", saga.CorrelationID)
	return nil
}

// handleWalletCreditFailed компенсирует состоявшееся списание возвратом
// средств отправителю и завершает сагу отказом.
// Компенсирующая команда публикуется до записи терминального состояния.
func (m *StateMachine) handleWalletCreditFailed(ctx context.Context, msg *models.Message) error {
	var event models.WalletCreditFailed
	if err := msg.Decode(&event); err != nil {
		return err
	}

	saga, ok, err := m.loadForTransition(ctx, msg, models.StateReceiverCreditPending)
	if err != nil || !ok {
		return err
	}

	refundErr := m.publishCommand(m.topics.WalletCommandsTopic, models.MsgRefundSenderWallet, saga.CorrelationID,
		&models.RefundSenderWallet{
			CorrelationID:   saga.CorrelationID,
			OwnerCustomerID: saga.SenderCustomerID,
			Amount:          saga.Amount,
			Currency:        saga.Currency,
			TransactionID:   saga.TransactionID,
		})
	if refundErr != nil {
		return refundErr
	}

	logger.LogEvent(logger.EventRefundIssued, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"amount":         saga.Amount.String(),
	})

	return m.fail(ctx, saga, event.Reason)
}

// loadForTransition загружает сагу и проверяет state guard.
// ok=false означает, что событие нужно отбросить без обработки.
func (m *StateMachine) loadForTransition(ctx context.Context, msg *models.Message, expected models.TransferState) (*models.TransferSaga, bool, error) {
	saga, err := m.sagas.GetSagaByCorrelationID(ctx, msg.CorrelationID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up saga %s: %w", msg.CorrelationID, err)
	}
	if saga == nil {
		log.Printf("No saga instance for %s, dropping %s", msg.CorrelationID, msg.EventType)
		return nil, false, nil
	}
	if saga.CurrentState != expected {
		m.logDuplicate(msg, saga.CurrentState)
		return nil, false, nil
	}
	return saga, true, nil
}

// fail записывает терминальное состояние Failed с причиной
func (m *StateMachine) fail(ctx context.Context, saga *models.TransferSaga, reason string) error {
	saga.CurrentState = models.StateFailed
	saga.FailureReason = &reason
	if err := m.sagas.UpdateSagaState(ctx, saga); err != nil {
		return fmt.Errorf("failed to update saga %s: %w", saga.CorrelationID, err)
	}

	logger.LogEvent(logger.EventSagaFailed, serviceName, "saga", map[string]interface{}{
		"correlation_id": saga.CorrelationID,
		"reason":         reason,
	})

	log.Printf("Transfer %s failed: %s", saga.CorrelationID, reason)
	return nil
}

func (m *StateMachine) publishCommand(topic, eventType, correlationID string, payload interface{}) error {
	msg, err := models.NewMessage(eventType, correlationID, payload)
	if err != nil {
		return err
	}
	if err := m.producer.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", eventType, correlationID, err)
	}

	logger.LogEvent(logger.EventCommandPublished, serviceName, "kafka", map[string]interface{}{
		"correlation_id": correlationID,
		"event_type":     eventType,
		"topic":          topic,
	})
	return nil
}

func (m *StateMachine) logDuplicate(msg *models.Message, current models.TransferState) {
	log.Printf("Dropping %s for %s: saga is in state %s", msg.EventType, msg.CorrelationID, current)
	logger.LogEvent(logger.EventDuplicateDropped, serviceName, "saga", map[string]interface{}{
		"correlation_id": msg.CorrelationID,
		"event_type":     msg.EventType,
		"current_state":  string(current),
	})
}
