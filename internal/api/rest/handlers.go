package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wallet-transfer-system/internal/logger"
	"wallet-transfer-system/internal/models"
	"wallet-transfer-system/internal/redis"
	"wallet-transfer-system/internal/services"
)

// TransferHandlers - обработчики REST API transfer-сервиса
type TransferHandlers struct {
	transferService services.TransferService
}

// NewTransferHandlers создает обработчики transfer-сервиса
func NewTransferHandlers(transferService services.TransferService) *TransferHandlers {
	return &TransferHandlers{transferService: transferService}
}

// StartTransfer обрабатывает POST запрос на запуск перевода
// @Summary Запустить перевод между кошельками
// @Description Принимает запрос на перевод, находит участников и публикует стартовое событие саги. Перевод выполняется асинхронно; статус доступен по correlation id.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body services.StartTransferRequest true "Данные перевода"
// @Success 202 {object} services.StartTransferResponse "Перевод принят"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Участник не найден"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /transfers [post]
func (h *TransferHandlers) StartTransfer(c *gin.Context) {
	var req services.StartTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ClientIPAddress = c.ClientIP()

	response, err := h.transferService.StartTransfer(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrSelfTransfer):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSenderNotFound), errors.Is(err, services.ErrReceiverNotFound),
			errors.Is(err, services.ErrSenderNoWallet), errors.Is(err, services.ErrReceiverNoWallet):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transfer"})
		}
		return
	}

	c.JSON(http.StatusAccepted, response)
}

// GetTransferStatus возвращает статус перевода
// @Summary Получить статус перевода
// @Tags transfers
// @Produce json
// @Param correlation_id path string true "Correlation ID перевода"
// @Success 200 {object} models.TransferSaga
// @Failure 404 {object} map[string]string "Not Found"
// @Router /transfers/{correlation_id} [get]
func (h *TransferHandlers) GetTransferStatus(c *gin.Context) {
	correlationID := c.Param("correlation_id")

	saga, err := h.transferService.GetTransferStatus(c.Request.Context(), correlationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transfer status"})
		return
	}
	if saga == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	}

	c.JSON(http.StatusOK, saga)
}

// GetRecentTransfers возвращает последние переводы
// @Summary Получить последние переводы
// @Tags transfers
// @Produce json
// @Param limit query int false "Максимум записей" default(100)
// @Success 200 {array} models.TransferSaga
// @Router /transfers [get]
func (h *TransferHandlers) GetRecentTransfers(c *gin.Context) {
	limit := parseLimit(c, 100)

	sagas, err := h.transferService.GetRecentTransfers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transfers"})
		return
	}

	c.JSON(http.StatusOK, sagas)
}

// WalletHandlers - обработчики REST API wallet-сервиса
type WalletHandlers struct {
	walletService services.WalletService
}

// NewWalletHandlers создает обработчики wallet-сервиса
func NewWalletHandlers(walletService services.WalletService) *WalletHandlers {
	return &WalletHandlers{walletService: walletService}
}

// CreateWalletRequest - запрос на создание кошелька
type CreateWalletRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Currency   string `json:"currency" binding:"required"`
}

// DepositRequest - запрос на пополнение кошелька
type DepositRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// CreateWallet создает кошелек клиента
// @Summary Создать кошелек
// @Tags wallets
// @Accept json
// @Produce json
// @Param wallet body CreateWalletRequest true "Данные кошелька"
// @Success 201 {object} models.Wallet
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /wallets [post]
func (h *WalletHandlers) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), req.CustomerID, req.Currency)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
		return
	}

	c.JSON(http.StatusCreated, wallet)
}

// GetWallet возвращает кошелек по идентификатору
// @Summary Получить кошелек
// @Tags wallets
// @Produce json
// @Param wallet_id path string true "ID кошелька"
// @Success 200 {object} models.Wallet
// @Failure 404 {object} map[string]string "Not Found"
// @Router /wallets/{wallet_id} [get]
func (h *WalletHandlers) GetWallet(c *gin.Context) {
	wallet, err := h.walletService.GetWallet(c.Request.Context(), c.Param("wallet_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallet"})
		return
	}
	if wallet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetCustomerWallets возвращает кошельки клиента
// @Summary Получить кошельки клиента
// @Tags wallets
// @Produce json
// @Param customer_id path string true "ID клиента"
// @Param currency query string false "Фильтр по валюте"
// @Success 200 {array} models.Wallet
// @Router /customers/{customer_id}/wallets [get]
func (h *WalletHandlers) GetCustomerWallets(c *gin.Context) {
	wallets, err := h.walletService.GetCustomerWallets(
		c.Request.Context(), c.Param("customer_id"), c.Query("currency"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallets"})
		return
	}
	if wallets == nil {
		wallets = []*models.Wallet{}
	}

	c.JSON(http.StatusOK, wallets)
}

// Deposit пополняет кошелек
// @Summary Пополнить кошелек
// @Tags wallets
// @Accept json
// @Produce json
// @Param wallet_id path string true "ID кошелька"
// @Param deposit body DepositRequest true "Сумма пополнения"
// @Success 200 {object} models.Wallet
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Операция отклонена"
// @Router /wallets/{wallet_id}/deposit [post]
func (h *WalletHandlers) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	money, err := models.NewMoneyFromString(req.Amount, req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, outcome, err := h.walletService.Deposit(c.Request.Context(), c.Param("wallet_id"), money)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !outcome.OK() {
		c.JSON(http.StatusConflict, gin.H{"error": outcome.Reason()})
		return
	}

	logger.LogEvent(logger.EventWalletCredited, "wallet-service", "api", map[string]interface{}{
		"wallet_id": wallet.ID,
		"amount":    money.Amount.String(),
	})

	c.JSON(http.StatusOK, wallet)
}

// Freeze замораживает кошелек
// @Summary Заморозить кошелек
// @Tags wallets
// @Produce json
// @Param wallet_id path string true "ID кошелька"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Операция отклонена"
// @Router /wallets/{wallet_id}/freeze [post]
func (h *WalletHandlers) Freeze(c *gin.Context) {
	h.lifecycleOp(c, h.walletService.Freeze)
}

// Unfreeze размораживает кошелек
// @Summary Разморозить кошелек
// @Tags wallets
// @Produce json
// @Param wallet_id path string true "ID кошелька"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Операция отклонена"
// @Router /wallets/{wallet_id}/unfreeze [post]
func (h *WalletHandlers) Unfreeze(c *gin.Context) {
	h.lifecycleOp(c, h.walletService.Unfreeze)
}

// Close закрывает кошелек
// @Summary Закрыть кошелек
// @Tags wallets
// @Produce json
// @Param wallet_id path string true "ID кошелька"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Операция отклонена"
// @Router /wallets/{wallet_id}/close [post]
func (h *WalletHandlers) Close(c *gin.Context) {
	h.lifecycleOp(c, h.walletService.CloseWallet)
}

func (h *WalletHandlers) lifecycleOp(c *gin.Context, op func(ctx context.Context, walletID string) (models.WalletOutcome, error)) {
	outcome, err := op(c.Request.Context(), c.Param("wallet_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !outcome.OK() {
		c.JSON(http.StatusConflict, gin.H{"error": outcome.Reason()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WalletHandlers) writeServiceError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrWalletNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Wallet operation failed"})
}

// FraudHandlers - обработчики REST API fraud-сервиса
type FraudHandlers struct {
	redisClient redis.ClientInterface
}

// NewFraudHandlers создает обработчики fraud-сервиса
func NewFraudHandlers(redisClient redis.ClientInterface) *FraudHandlers {
	return &FraudHandlers{redisClient: redisClient}
}

// GetDecision возвращает решение fraud-проверки по correlation id
// @Summary Получить решение fraud-проверки
// @Tags fraud
// @Produce json
// @Param correlation_id path string true "Correlation ID перевода"
// @Success 200 {object} fraud.Decision
// @Failure 404 {object} map[string]string "Not Found"
// @Router /decisions/{correlation_id} [get]
func (h *FraudHandlers) GetDecision(c *gin.Context) {
	decision, err := h.redisClient.GetDecision(c.Request.Context(), c.Param("correlation_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get decision"})
		return
	}
	if decision == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Decision not found"})
		return
	}

	c.JSON(http.StatusOK, decision)
}

// GetDecisionStats возвращает счетчики решений
// @Summary Получить статистику решений
// @Tags fraud
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /decisions/stats [get]
func (h *FraudHandlers) GetDecisionStats(c *gin.Context) {
	stats, err := h.redisClient.GetDecisionStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
