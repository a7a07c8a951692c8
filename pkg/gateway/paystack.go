// pkg/gateway/paystack.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// InitializeRequest carries the customer data the processor needs to open a
// checkout session. The amount is converted to subunits on the wire.
type InitializeRequest struct {
	Amount    decimal.Decimal
	Email     string
	FullName  string
	FirstName string
	LastName  string
	Phone     string
}

// InitializeData is the checkout session returned by the processor.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData is the processor's view of a transaction.
type VerifyData struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"` // subunits
	Currency  string          `json:"currency"`
	PaidAt    *time.Time      `json:"paid_at"`
}

// Client is the outbound interface to the payment processor.
type Client interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeData, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyData, error)
}

// HTTPClient talks to the Paystack REST API.
type HTTPClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewHTTPClient creates a Paystack client.
func NewHTTPClient(baseURL, secretKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction opens a checkout session with the processor.
func (c *HTTPClient) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	payload := map[string]any{
		"amount":     req.Amount.Mul(decimal.NewFromInt(100)).IntPart(), // subunits
		"email":      req.Email,
		"full_name":  req.FullName,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"phone":      req.Phone,
	}
	var data InitializeData
	if err := c.post(ctx, "/transaction/initialize", payload, &data); err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	return &data, nil
}

// VerifyTransaction queries the processor for the state of a transaction.
func (c *HTTPClient) VerifyTransaction(ctx context.Context, reference string) (*VerifyData, error) {
	var data VerifyData
	if err := c.get(ctx, "/transaction/verify/"+reference, &data); err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	return &data, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !envelope.Status {
		return fmt.Errorf("gateway returned failure: %s", envelope.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
