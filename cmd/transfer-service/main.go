package main

import "wallet-transfer-system/internal/bootstrap/transfer"

// @title Wallet Transfer System API
// @version 1.0
// @description Система асинхронных переводов между кошельками
// @host localhost:8080
// @BasePath /api/v1
func main() { transfer.StartTransferService() }
