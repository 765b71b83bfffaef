package main

import "wallet-transfer-system/internal/bootstrap/fraudcheck"

// @title Fraud Check Service API
// @version 1.0
// @description Сервис проверки переводов правилами антифрода
// @host localhost:8082
// @BasePath /api/v1
func main() { fraudcheck.StartFraudCheckService() }
