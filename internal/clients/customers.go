package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wallet-transfer-system/internal/models"
)

// CustomerClient - HTTP клиент внешнего сервиса клиентов
type CustomerClient struct {
	baseURL string
	client  *http.Client
}

// NewCustomerClient создает клиента сервиса клиентов
func NewCustomerClient(baseURL string) *CustomerClient {
	return &CustomerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetCustomerByID получает клиента по идентификатору
func (c *CustomerClient) GetCustomerByID(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer
	found, err := c.getJSON(ctx, fmt.Sprintf("/api/v1/customers/%s", url.PathEscape(customerID)), &customer)
	if err != nil || !found {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByNumber получает клиента по клиентскому номеру
func (c *CustomerClient) GetCustomerByNumber(ctx context.Context, customerNumber string) (*models.Customer, error) {
	var customer models.Customer
	found, err := c.getJSON(ctx, fmt.Sprintf("/api/v1/customers/by-number/%s", url.PathEscape(customerNumber)), &customer)
	if err != nil || !found {
		return nil, err
	}
	return &customer, nil
}

// GetCustomersBatch получает нескольких клиентов одним запросом
func (c *CustomerClient) GetCustomersBatch(ctx context.Context, customerIDs []string) ([]*models.Customer, error) {
	body, err := json.Marshal(map[string][]string{"customer_ids": customerIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/customers/batch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("customer service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	var customers []*models.Customer
	if err := json.NewDecoder(resp.Body).Decode(&customers); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}
	return customers, nil
}

// GetVerificationData получает верификационные данные клиента
func (c *CustomerClient) GetVerificationData(ctx context.Context, customerID string) (*models.CustomerVerification, error) {
	var verification models.CustomerVerification
	found, err := c.getJSON(ctx, fmt.Sprintf("/api/v1/customers/%s/verification", url.PathEscape(customerID)), &verification)
	if err != nil || !found {
		return nil, err
	}
	return &verification, nil
}

// getJSON выполняет GET запрос; 404 транслируется в (false, nil)
func (c *CustomerClient) getJSON(ctx context.Context, path string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("customer service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}

// Убеждаемся, что CustomerClient реализует CustomerLookup
var _ CustomerLookup = (*CustomerClient)(nil)
