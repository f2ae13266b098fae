package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/academy-backend/internal/errors"
	"github.com/google/uuid"
)

const mercadoPagoBaseURL = "https://api.mercadopago.com"

// MercadoPagoClient talks to the MercadoPago REST API
type MercadoPagoClient struct {
	accessToken string
	baseURL     string
	client      *http.Client
}

// NewMercadoPagoClient creates a new MercadoPago API client
func NewMercadoPagoClient(accessToken string) *MercadoPagoClient {
	return &MercadoPagoClient{
		accessToken: accessToken,
		baseURL:     mercadoPagoBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL (used by tests)
func (c *MercadoPagoClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// PreferenceItem is one line item in a checkout preference
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

// PreferenceBackURLs are the redirect targets after hosted checkout
type PreferenceBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// PreferenceParams describes a hosted checkout preference to create
type PreferenceParams struct {
	Items             []PreferenceItem   `json:"items"`
	Payer             *PreferencePayer   `json:"payer,omitempty"`
	BackURLs          PreferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return,omitempty"`
	ExternalReference string             `json:"external_reference,omitempty"`
	NotificationURL   string             `json:"notification_url,omitempty"`
}

// PreferencePayer carries the known payer details into checkout
type PreferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Preference is the subset of a created preference the backend uses
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference creates a hosted checkout preference
func (c *MercadoPagoClient) CreatePreference(ctx context.Context, params *PreferenceParams) (*Preference, error) {
	var preference Preference
	if err := c.doJSON(ctx, http.MethodPost, "/checkout/preferences", params, &preference, ""); err != nil {
		return nil, err
	}
	return &preference, nil
}

// MercadoPagoPayment is the subset of a payment the backend uses
type MercadoPagoPayment struct {
	ID                int64                  `json:"id"`
	Status            string                 `json:"status"`
	StatusDetail      string                 `json:"status_detail"`
	TransactionAmount float64                `json:"transaction_amount"`
	CurrencyID        string                 `json:"currency_id"`
	Description       string                 `json:"description"`
	ExternalReference string                 `json:"external_reference"`
	Payer             *PaymentPayer          `json:"payer,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// PaymentPayer identifies who paid
type PaymentPayer struct {
	Email string `json:"email"`
}

// PaymentParams describes a direct card payment to create (Checkout API flow)
type PaymentParams struct {
	Token             string                 `json:"token"`
	TransactionAmount float64                `json:"transaction_amount"`
	Installments      int                    `json:"installments"`
	PaymentMethodID   string                 `json:"payment_method_id"`
	Description       string                 `json:"description,omitempty"`
	ExternalReference string                 `json:"external_reference,omitempty"`
	Payer             *PaymentPayer          `json:"payer,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// CreatePayment charges a tokenized card. The idempotency key guards against
// double charges on retried requests.
func (c *MercadoPagoClient) CreatePayment(ctx context.Context, params *PaymentParams) (*MercadoPagoPayment, error) {
	var payment MercadoPagoPayment
	if err := c.doJSON(ctx, http.MethodPost, "/v1/payments", params, &payment, uuid.New().String()); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment fetches a payment by id. Webhook handling re-fetches every
// reported payment instead of trusting the notification body.
func (c *MercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*MercadoPagoPayment, error) {
	var payment MercadoPagoPayment
	if err := c.doJSON(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &payment, ""); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *MercadoPagoClient) doJSON(ctx context.Context, method, path string, in, out interface{}, idempotencyKey string) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.NewProviderError("mercadopago", fmt.Errorf("failed to encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.NewProviderError("mercadopago", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewProviderError("mercadopago", fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) // nolint:errcheck // drain for connection reuse
		_ = resp.Body.Close()                 // nolint:errcheck // cleanup in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewProviderError("mercadopago", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewProviderError("mercadopago", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewProviderError("mercadopago", fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
