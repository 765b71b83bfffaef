package main

import "wallet-transfer-system/internal/bootstrap/wallet"

// @title Wallet Service API
// @version 1.0
// @description Сервис кошельков: балансы, lifecycle-операции и обработка команд переводов
// @host localhost:8081
// @BasePath /api/v1
func main() { wallet.StartWalletService() }
