package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wallet-transfer-system/internal/models"
)

// WalletClient - HTTP клиент lookup-эндпоинтов wallet-сервиса
type WalletClient struct {
	baseURL string
	client  *http.Client
}

// NewWalletClient создает клиента wallet-сервиса
func NewWalletClient(baseURL string) *WalletClient {
	return &WalletClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetWalletByCustomerAndCurrency получает кошелек клиента в указанной валюте
func (c *WalletClient) GetWalletByCustomerAndCurrency(ctx context.Context, customerID, currency string) (*models.Wallet, error) {
	path := fmt.Sprintf("/api/v1/customers/%s/wallets?currency=%s",
		url.PathEscape(customerID), url.QueryEscape(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallet service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallet service returned status %d", resp.StatusCode)
	}

	var wallets []*models.Wallet
	if err := json.NewDecoder(resp.Body).Decode(&wallets); err != nil {
		return nil, fmt.Errorf("failed to decode wallets response: %w", err)
	}
	if len(wallets) == 0 {
		return nil, nil
	}
	return wallets[0], nil
}

// GetWalletsBatch получает кошельки нескольких клиентов в указанной валюте
func (c *WalletClient) GetWalletsBatch(ctx context.Context, customerIDs []string, currency string) ([]*models.Wallet, error) {
	wallets := make([]*models.Wallet, 0, len(customerIDs))
	for _, customerID := range customerIDs {
		wallet, err := c.GetWalletByCustomerAndCurrency(ctx, customerID, currency)
		if err != nil {
			return nil, err
		}
		if wallet != nil {
			wallets = append(wallets, wallet)
		}
	}
	return wallets, nil
}

// Убеждаемся, что WalletClient реализует WalletLookup
var _ WalletLookup = (*WalletClient)(nil)
