package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wallet-transfer-system/internal/fraud"
	"wallet-transfer-system/internal/models"
	redismocks "wallet-transfer-system/internal/redis/mocks"
	"wallet-transfer-system/internal/services"
	servicemocks "wallet-transfer-system/internal/services/mocks"
)

func setupTransferTestRouter(handlers *TransferHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/transfers", handlers.StartTransfer)
		api.GET("/transfers", handlers.GetRecentTransfers)
		api.GET("/transfers/:correlation_id", handlers.GetTransferStatus)
	}
	return router
}

func setupWalletTestRouter(handlers *WalletHandlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/wallets", handlers.CreateWallet)
		api.GET("/wallets/:wallet_id", handlers.GetWallet)
		api.POST("/wallets/:wallet_id/deposit", handlers.Deposit)
		api.POST("/wallets/:wallet_id/freeze", handlers.Freeze)
		api.GET("/customers/:customer_id/wallets", handlers.GetCustomerWallets)
	}
	return router
}

func TestStartTransfer_Accepted(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	response := &services.StartTransferResponse{
		CorrelationID: "corr-1",
		TransactionID: "txn_001",
		Status:        "accepted",
	}
	mockService.On("StartTransfer", mock.Anything, mock.AnythingOfType("*services.StartTransferRequest")).
		Return(response, nil)

	body, _ := json.Marshal(services.StartTransferRequest{
		SenderCustomerNumber:   "C-100",
		ReceiverCustomerNumber: "C-200",
		Amount:                 "250.00",
		Currency:               "TRY",
	})
	req := httptest.NewRequest("POST", "/api/v1/transfers", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var got services.StartTransferResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "corr-1", got.CorrelationID)
	assert.Equal(t, "accepted", got.Status)
}

func TestStartTransfer_MissingFields(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	req := httptest.NewRequest("POST", "/api/v1/transfers", bytes.NewBufferString(`{"amount": "100"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "StartTransfer", mock.Anything, mock.Anything)
}

func TestStartTransfer_UnknownParticipant(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	mockService.On("StartTransfer", mock.Anything, mock.Anything).Return(nil, services.ErrSenderNotFound)

	body, _ := json.Marshal(services.StartTransferRequest{
		SenderCustomerNumber:   "C-999",
		ReceiverCustomerNumber: "C-200",
		Amount:                 "250.00",
		Currency:               "TRY",
	})
	req := httptest.NewRequest("POST", "/api/v1/transfers", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetTransferStatus_Found(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	saga := &models.TransferSaga{CorrelationID: "corr-1", CurrentState: models.StateCompleted}
	mockService.On("GetTransferStatus", mock.Anything, "corr-1").Return(saga, nil)

	req := httptest.NewRequest("GET", "/api/v1/transfers/corr-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.TransferSaga
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StateCompleted, got.CurrentState)
}

func TestGetTransferStatus_NotFound(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	mockService.On("GetTransferStatus", mock.Anything, "corr-missing").Return(nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/transfers/corr-missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecentTransfers_LimitParsed(t *testing.T) {
	mockService := new(servicemocks.MockTransferService)
	router := setupTransferTestRouter(NewTransferHandlers(mockService))

	mockService.On("GetRecentTransfers", mock.Anything, 5).Return([]*models.TransferSaga{}, nil)

	req := httptest.NewRequest("GET", "/api/v1/transfers?limit=5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateWalletHandler(t *testing.T) {
	mockService := new(servicemocks.MockWalletService)
	router := setupWalletTestRouter(NewWalletHandlers(mockService))

	wallet := models.NewWallet("wal_1", "cust_1", "W1001", "TRY")
	mockService.On("CreateWallet", mock.Anything, "cust_1", "TRY").Return(wallet, nil)

	req := httptest.NewRequest("POST", "/api/v1/wallets",
		bytes.NewBufferString(`{"customer_id": "cust_1", "currency": "TRY"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.Wallet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "wal_1", got.ID)
}

func TestDepositHandler(t *testing.T) {
	mockService := new(servicemocks.MockWalletService)
	router := setupWalletTestRouter(NewWalletHandlers(mockService))

	wallet := models.NewWallet("wal_1", "cust_1", "W1001", "TRY")
	mockService.On("Deposit", mock.Anything, "wal_1", mock.MatchedBy(func(m models.Money) bool {
		return m.Amount.String() == "100" && m.Currency == "TRY"
	})).Return(wallet, models.OutcomeOK, nil)

	req := httptest.NewRequest("POST", "/api/v1/wallets/wal_1/deposit",
		bytes.NewBufferString(`{"amount": "100", "currency": "TRY"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDepositHandler_FrozenWalletConflict(t *testing.T) {
	mockService := new(servicemocks.MockWalletService)
	router := setupWalletTestRouter(NewWalletHandlers(mockService))

	mockService.On("Deposit", mock.Anything, "wal_1", mock.Anything).
		Return(nil, models.OutcomeFrozen, nil)

	req := httptest.NewRequest("POST", "/api/v1/wallets/wal_1/deposit",
		bytes.NewBufferString(`{"amount": "100", "currency": "TRY"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "wallet is frozen")
}

func TestFreezeHandler_NotFound(t *testing.T) {
	mockService := new(servicemocks.MockWalletService)
	router := setupWalletTestRouter(NewWalletHandlers(mockService))

	mockService.On("Freeze", mock.Anything, "wal_missing").
		Return(models.WalletOutcome(""), services.ErrWalletNotFound)

	req := httptest.NewRequest("POST", "/api/v1/wallets/wal_missing/freeze", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCustomerWalletsHandler(t *testing.T) {
	mockService := new(servicemocks.MockWalletService)
	router := setupWalletTestRouter(NewWalletHandlers(mockService))

	mockService.On("GetCustomerWallets", mock.Anything, "cust_1", "TRY").
		Return([]*models.Wallet{models.NewWallet("wal_1", "cust_1", "W1001", "TRY")}, nil)

	req := httptest.NewRequest("GET", "/api/v1/customers/cust_1/wallets?currency=TRY", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []*models.Wallet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "wal_1", got[0].ID)
}

func TestGetDecisionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRedis := new(redismocks.MockClientInterface)
	handlers := NewFraudHandlers(mockRedis)

	router := gin.New()
	router.GET("/api/v1/decisions/:correlation_id", handlers.GetDecision)

	mockRedis.On("GetDecision", mock.Anything, "corr-1").
		Return(&fraud.Decision{Approved: false, Reason: "blocked source"}, nil)

	req := httptest.NewRequest("GET", "/api/v1/decisions/corr-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blocked source")
}

func TestGetDecisionHandler_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRedis := new(redismocks.MockClientInterface)
	handlers := NewFraudHandlers(mockRedis)

	router := gin.New()
	router.GET("/api/v1/decisions/:correlation_id", handlers.GetDecision)

	mockRedis.On("GetDecision", mock.Anything, "corr-missing").Return(nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/decisions/corr-missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDecisionStatsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRedis := new(redismocks.MockClientInterface)
	handlers := NewFraudHandlers(mockRedis)

	router := gin.New()
	router.GET("/api/v1/decisions/stats", handlers.GetDecisionStats)

	mockRedis.On("GetDecisionStats", mock.Anything).
		Return(map[string]int64{"approved": 7, "declined": 2}, nil)

	req := httptest.NewRequest("GET", "/api/v1/decisions/stats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.EqualValues(t, 7, got["approved"])
}
