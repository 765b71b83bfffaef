package rest

import (
	"net/http"
	"strconv"

	"wallet-transfer-system/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CORSMiddleware возвращает middleware для обработки CORS
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupCommonEndpoints добавляет общие endpoints (health, events, stats) к роутеру
func SetupCommonEndpoints(router *gin.Engine) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Events endpoint
	router.GET("/api/v1/events", func(c *gin.Context) {
		events := logger.GetEvents(parseLimit(c, 100))
		c.JSON(http.StatusOK, gin.H{"events": events})
	})

	// Stats endpoint
	router.GET("/api/v1/stats", func(c *gin.Context) {
		stats := logger.GetStats()
		c.JSON(http.StatusOK, stats)
	})
}

func parseLimit(c *gin.Context, def int) int {
	limit := def
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	return limit
}

func newRouter() *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(CORSMiddleware())

	router.Use(gin.Logger(), gin.Recovery())

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	return router
}

// SetupTransferRouter настраивает маршруты REST API transfer-сервиса
func SetupTransferRouter(handlers *TransferHandlers) *gin.Engine {
	router := newRouter()

	api := router.Group("/api/v1")
	{
		api.POST("/transfers", handlers.StartTransfer)
		api.GET("/transfers", handlers.GetRecentTransfers)
		api.GET("/transfers/:correlation_id", handlers.GetTransferStatus)
	}

	// Общие endpoints (health, events, stats)
	SetupCommonEndpoints(router)

	return router
}

// SetupWalletRouter настраивает маршруты REST API wallet-сервиса
func SetupWalletRouter(handlers *WalletHandlers) *gin.Engine {
	router := newRouter()

	api := router.Group("/api/v1")
	{
		api.POST("/wallets", handlers.CreateWallet)
		api.GET("/wallets/:wallet_id", handlers.GetWallet)
		api.POST("/wallets/:wallet_id/deposit", handlers.Deposit)
		api.POST("/wallets/:wallet_id/freeze", handlers.Freeze)
		api.POST("/wallets/:wallet_id/unfreeze", handlers.Unfreeze)
		api.POST("/wallets/:wallet_id/close", handlers.Close)
		api.GET("/customers/:customer_id/wallets", handlers.GetCustomerWallets)
	}

	// Общие endpoints (health, events, stats)
	SetupCommonEndpoints(router)

	return router
}

// SetupFraudRouter настраивает маршруты REST API fraud-сервиса
func SetupFraudRouter(handlers *FraudHandlers) *gin.Engine {
	router := newRouter()

	api := router.Group("/api/v1")
	{
		api.GET("/decisions/stats", handlers.GetDecisionStats)
		api.GET("/decisions/:correlation_id", handlers.GetDecision)
	}

	// Общие endpoints (health, events, stats)
	SetupCommonEndpoints(router)

	return router
}
