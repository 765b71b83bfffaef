package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wallet-transfer-system/internal/config"
	"wallet-transfer-system/internal/kafka"
	"wallet-transfer-system/internal/logger"
	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/storage"
)

const walletServiceName = "wallet-service"

// ErrWalletNotFound возвращается REST-операциями для несуществующего кошелька
var ErrWalletNotFound = errors.New("wallet not found")

// Количество повторов read-modify-write при конфликте версий
const maxVersionRetries = 3

// WalletServiceImpl реализует интерфейс WalletService
type WalletServiceImpl struct {
	wallets  storage.WalletRepository
	producer kafka.Producer
	topics   config.KafkaConfig
}

// NewWalletService создает новый сервис кошельков
func NewWalletService(wallets storage.WalletRepository, producer kafka.Producer, topics config.KafkaConfig) WalletService {
	return &WalletServiceImpl{
		wallets:  wallets,
		producer: producer,
		topics:   topics,
	}
}

// CreateWallet создает кошелек клиента с нулевым балансом
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	if _, err := models.NewMoneyFromString("0", currency); err != nil {
		return nil, err
	}

	wallet := models.NewWallet(
		"wal_"+uuid.New().String(),
		customerID,
		fmt.Sprintf("W%d", time.Now().UnixNano()),
		currency,
	)

	if err := s.wallets.CreateWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	logger.LogEvent(logger.EventDBUpdated, walletServiceName, "sqlite", map[string]interface{}{
		"wallet_id":   wallet.ID,
		"customer_id": customerID,
		"currency":    currency,
		"action":      "wallet_created",
	})
	return wallet, nil
}

// GetWallet получает кошелек по идентификатору
func (s *WalletServiceImpl) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	return s.wallets.GetWalletByID(ctx, walletID)
}

// GetCustomerWallets получает кошельки клиента, опционально фильтруя по валюте
func (s *WalletServiceImpl) GetCustomerWallets(ctx context.Context, customerID, currency string) ([]*models.Wallet, error) {
	if currency != "" {
		wallet, err := s.wallets.GetWalletByCustomerAndCurrency(ctx, customerID, currency)
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			return []*models.Wallet{}, nil
		}
		return []*models.Wallet{wallet}, nil
	}
	return s.wallets.GetWalletsByCustomer(ctx, customerID)
}

// Deposit пополняет кошелек через REST API
func (s *WalletServiceImpl) Deposit(ctx context.Context, walletID string, money models.Money) (*models.Wallet, models.WalletOutcome, error) {
	var result *models.Wallet
	outcome, err := s.mutateByID(ctx, walletID, func(w *models.Wallet) models.WalletOutcome {
		out := w.Deposit(money)
		result = w
		return out
	})
	if err != nil {
		return nil, outcome, err
	}
	if outcome.OK() {
		s.publishBalanceUpdate(result)
	}
	return result, outcome, nil
}

// Freeze замораживает кошелек
func (s *WalletServiceImpl) Freeze(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	return s.mutateByID(ctx, walletID, func(w *models.Wallet) models.WalletOutcome {
		return w.Freeze()
	})
}

// Unfreeze размораживает кошелек
func (s *WalletServiceImpl) Unfreeze(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	return s.mutateByID(ctx, walletID, func(w *models.Wallet) models.WalletOutcome {
		return w.Unfreeze()
	})
}

// CloseWallet закрывает кошелек
func (s *WalletServiceImpl) CloseWallet(ctx context.Context, walletID string) (models.WalletOutcome, error) {
	return s.mutateByID(ctx, walletID, func(w *models.Wallet) models.WalletOutcome {
		return w.Close()
	})
}

// HandleCommand обрабатывает команду шины
func (s *WalletServiceImpl) HandleCommand(ctx context.Context, msg *models.Message) error {
	logger.LogEvent(logger.EventKafkaReceived, walletServiceName, "kafka", map[string]interface{}{
		"correlation_id": msg.CorrelationID,
		"event_type":     msg.EventType,
		"event_id":       msg.EventID,
	})

	switch msg.EventType {
	case models.MsgDebitSenderWallet:
		return s.handleDebit(ctx, msg)
	case models.MsgCreditWallet:
		return s.handleCredit(ctx, msg)
	case models.MsgRefundSenderWallet:
		return s.handleRefund(ctx, msg)
	default:
		log.Printf("Ignoring unknown command %q for %s", msg.EventType, msg.CorrelationID)
		return nil
	}
}

// handleDebit списывает сумму перевода с кошелька отправителя.
// Маркер последней транзакции делает повторную доставку команды идемпотентной:
// уже списанная команда приводит к повторной публикации ответа, а не к
// повторному списанию.
func (s *WalletServiceImpl) handleDebit(ctx context.Context, msg *models.Message) error {
	var cmd models.DebitSenderWallet
	if err := msg.Decode(&cmd); err != nil {
		return err
	}

	money, err := models.NewMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return s.publishDebitFailed(cmd.CorrelationID, err.Error())
	}

	wallet, err := s.wallets.GetWalletByCustomerAndCurrency(ctx, cmd.OwnerCustomerID, cmd.Currency)
	if err != nil {
		return fmt.Errorf("failed to look up sender wallet: %w", err)
	}
	if wallet == nil {
		return s.publishDebitFailed(cmd.CorrelationID, "sender wallet not found")
	}

	marker := cmd.TransactionID + ":debit"
	if wallet.LastTransactionID == marker {
		// Дубликат команды: списание уже применено, переотправляем ответ
		return s.publishDebited(cmd.CorrelationID, wallet, money)
	}

	wallet, outcome, err := s.mutate(ctx, wallet, func(w *models.Wallet) models.WalletOutcome {
		out := w.Withdraw(money)
		if out.OK() {
			w.UpdateLastTransaction(marker)
		}
		return out
	})
	if err != nil {
		return err
	}

	if !outcome.OK() {
		logger.LogEvent(logger.EventWalletOpFailed, walletServiceName, "ledger", map[string]interface{}{
			"correlation_id": cmd.CorrelationID,
			"wallet_id":      wallet.ID,
			"operation":      "debit",
			"reason":         outcome.Reason(),
		})
		return s.publishDebitFailed(cmd.CorrelationID, outcome.Reason())
	}

	logger.LogEvent(logger.EventWalletDebited, walletServiceName, "ledger", map[string]interface{}{
		"correlation_id": cmd.CorrelationID,
		"wallet_id":      wallet.ID,
		"amount":         money.Amount.String(),
	})

	s.publishBalanceUpdate(wallet)
	return s.publishDebited(cmd.CorrelationID, wallet, money)
}

// handleCredit зачисляет сумму перевода на кошелек получателя
func (s *WalletServiceImpl) handleCredit(ctx context.Context, msg *models.Message) error {
	var cmd models.CreditWallet
	if err := msg.Decode(&cmd); err != nil {
		return err
	}

	money, err := models.NewMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return s.publishCreditFailed(cmd.CorrelationID, err.Error())
	}

	wallet, err := s.wallets.GetWalletByID(ctx, cmd.WalletID)
	if err != nil {
		return fmt.Errorf("failed to look up receiver wallet: %w", err)
	}
	if wallet == nil {
		return s.publishCreditFailed(cmd.CorrelationID, "receiver wallet not found")
	}

	marker := cmd.TransactionID + ":credit"
	if wallet.LastTransactionID == marker {
		return s.publishCredited(cmd.CorrelationID, wallet, money)
	}

	wallet, outcome, err := s.mutate(ctx, wallet, func(w *models.Wallet) models.WalletOutcome {
		out := w.Deposit(money)
		if out.OK() {
			w.UpdateLastTransaction(marker)
		}
		return out
	})
	if err != nil {
		return err
	}

	if !outcome.OK() {
		logger.LogEvent(logger.EventWalletOpFailed, walletServiceName, "ledger", map[string]interface{}{
			"correlation_id": cmd.CorrelationID,
			"wallet_id":      wallet.ID,
			"operation":      "credit",
			"reason":         outcome.Reason(),
		})
		return s.publishCreditFailed(cmd.CorrelationID, outcome.Reason())
	}

	logger.LogEvent(logger.EventWalletCredited, walletServiceName, "ledger", map[string]interface{}{
		"correlation_id": cmd.CorrelationID,
		"wallet_id":      wallet.ID,
		"amount":         money.Amount.String(),
	})

	s.publishBalanceUpdate(wallet)
	return s.publishCredited(cmd.CorrelationID, wallet, money)
}

// handleRefund возвращает списанную сумму на кошелек отправителя.
// Возврат зачисляется даже на замороженный или неактивный кошелек:
// деньги уже покинули его и обязаны вернуться.
func (s *WalletServiceImpl) handleRefund(ctx context.Context, msg *models.Message) error {
	var cmd models.RefundSenderWallet
	if err := msg.Decode(&cmd); err != nil {
		return err
	}

	money, err := models.NewMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return fmt.Errorf("invalid refund amount for %s: %w", cmd.CorrelationID, err)
	}

	wallet, err := s.wallets.GetWalletByCustomerAndCurrency(ctx, cmd.OwnerCustomerID, cmd.Currency)
	if err != nil {
		return fmt.Errorf("failed to look up sender wallet: %w", err)
	}
	if wallet == nil {
		return fmt.Errorf("refund target wallet not found for %s", cmd.CorrelationID)
	}

	marker := cmd.TransactionID + ":refund"
	if wallet.LastTransactionID == marker {
		return s.publishRefunded(cmd.CorrelationID, wallet, money)
	}

	wallet, outcome, err := s.mutate(ctx, wallet, func(w *models.Wallet) models.WalletOutcome {
		newBalance, addErr := w.Balance.Add(money)
		if addErr != nil {
			return models.OutcomeCurrencyMismatch
		}
		newAvailable, addErr := w.AvailableBalance.Add(money)
		if addErr != nil {
			return models.OutcomeCurrencyMismatch
		}
		w.Balance = newBalance
		w.AvailableBalance = newAvailable
		w.UpdateLastTransaction(marker)
		return models.OutcomeOK
	})
	if err != nil {
		return err
	}
	if !outcome.OK() {
		return fmt.Errorf("refund for %s rejected: %s", cmd.CorrelationID, outcome.Reason())
	}

	logger.LogEvent(logger.EventRefundIssued, walletServiceName, "ledger", map[string]interface{}{
		"correlation_id": cmd.CorrelationID,
		"wallet_id":      wallet.ID,
		"amount":         money.Amount.String(),
	})

	s.publishBalanceUpdate(wallet)
	return s.publishRefunded(cmd.CorrelationID, wallet, money)
}

// mutateByID выполняет read-modify-write по идентификатору кошелька
func (s *WalletServiceImpl) mutateByID(ctx context.Context, walletID string, fn func(*models.Wallet) models.WalletOutcome) (models.WalletOutcome, error) {
	wallet, err := s.wallets.GetWalletByID(ctx, walletID)
	if err != nil {
		return "", err
	}
	if wallet == nil {
		return "", ErrWalletNotFound
	}
	_, outcome, err := s.mutate(ctx, wallet, fn)
	return outcome, err
}

// mutate применяет мутацию к кошельку и записывает его с проверкой версии.
// При конфликте версий кошелек перечитывается и мутация повторяется:
// optimistic concurrency поверх сериализованного писателя SQLite.
func (s *WalletServiceImpl) mutate(ctx context.Context, wallet *models.Wallet, fn func(*models.Wallet) models.WalletOutcome) (*models.Wallet, models.WalletOutcome, error) {
	for attempt := 0; ; attempt++ {
		outcome := fn(wallet)
		if !outcome.OK() {
			return wallet, outcome, nil
		}

		err := s.wallets.UpdateWallet(ctx, wallet)
		if err == nil {
			return wallet, outcome, nil
		}
		if !errors.Is(err, storage.ErrVersionConflict) {
			return wallet, outcome, fmt.Errorf("failed to update wallet %s: %w", wallet.ID, err)
		}
		if attempt+1 >= maxVersionRetries {
			return wallet, outcome, fmt.Errorf("wallet %s: too many version conflicts: %w", wallet.ID, err)
		}

		fresh, err := s.wallets.GetWalletByID(ctx, wallet.ID)
		if err != nil {
			return wallet, outcome, err
		}
		if fresh == nil {
			return wallet, outcome, ErrWalletNotFound
		}
		wallet = fresh
	}
}

func (s *WalletServiceImpl) publishDebited(correlationID string, wallet *models.Wallet, money models.Money) error {
	return s.publishReply(models.MsgWalletDebited, correlationID, &models.WalletDebited{
		CorrelationID: correlationID,
		WalletID:      wallet.ID,
		Amount:        money.Amount,
	})
}

func (s *WalletServiceImpl) publishDebitFailed(correlationID, reason string) error {
	return s.publishReply(models.MsgWalletDebitFailed, correlationID, &models.WalletDebitFailed{
		CorrelationID: correlationID,
		Reason:        reason,
	})
}

func (s *WalletServiceImpl) publishCredited(correlationID string, wallet *models.Wallet, money models.Money) error {
	return s.publishReply(models.MsgWalletCredited, correlationID, &models.WalletCredited{
		CorrelationID: correlationID,
		WalletID:      wallet.ID,
		Amount:        money.Amount,
	})
}

func (s *WalletServiceImpl) publishCreditFailed(correlationID, reason string) error {
	return s.publishReply(models.MsgWalletCreditFailed, correlationID, &models.WalletCreditFailed{
		CorrelationID: correlationID,
		Reason:        reason,
	})
}

func (s *WalletServiceImpl) publishRefunded(correlationID string, wallet *models.Wallet, money models.Money) error {
	return s.publishReply(models.MsgSenderRefunded, correlationID, &models.SenderRefunded{
		CorrelationID: correlationID,
		WalletID:      wallet.ID,
		Amount:        money.Amount,
	})
}

func (s *WalletServiceImpl) publishReply(eventType, correlationID string, payload interface{}) error {
	msg, err := models.NewMessage(eventType, correlationID, payload)
	if err != nil {
		return err
	}
	if err := s.producer.Publish(s.topics.TransferEventsTopic, msg); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", eventType, correlationID, err)
	}
	return nil
}

// publishBalanceUpdate отправляет широковещательное событие для read-моделей.
// Сбой публикации не влияет на исход операции.
func (s *WalletServiceImpl) publishBalanceUpdate(wallet *models.Wallet) {
	msg, err := models.NewMessage(models.MsgWalletBalanceUpdated, wallet.ID, &models.WalletBalanceUpdated{
		WalletID:   wallet.ID,
		NewBalance: wallet.Balance.Amount,
		Currency:   wallet.Currency(),
		AtUTC:      time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Error building balance update for %s: %v", wallet.ID, err)
		return
	}
	if err := s.producer.Publish(s.topics.BalanceUpdatesTopic, msg); err != nil {
		log.Printf("Error publishing balance update for %s: %v", wallet.ID, err)
	}
}
