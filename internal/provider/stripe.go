// Package provider contains hand-written clients for the external payment,
// email and market-data APIs the backend depends on.
package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/academy-backend/internal/errors"
)

const (
	stripeBaseURL = "https://api.stripe.com"

	// Stripe recommends rejecting signed payloads older than five minutes
	stripeSignatureTolerance = 5 * time.Minute
)

// StripeClient talks to the Stripe REST API. Stripe's API is form-encoded on
// the way in and JSON on the way out.
type StripeClient struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	client        *http.Client
}

// NewStripeClient creates a new Stripe API client
func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       stripeBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL (used by tests)
func (c *StripeClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// CheckoutSession is the subset of a Stripe Checkout Session the backend uses
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// PaymentIntent is the subset of a Stripe PaymentIntent the backend uses
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CheckoutSessionParams describes a hosted checkout page to create
type CheckoutSessionParams struct {
	AmountCents   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CreateCheckoutSession creates a hosted checkout page for a one-time payment
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params *CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

// PaymentIntentParams describes a payment intent to create for embedded checkout
type PaymentIntentParams struct {
	AmountCents   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

// CreatePaymentIntent creates a payment intent for on-site card collection
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, params *PaymentIntentParams) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountCents, 10))
	form.Set("currency", params.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if params.CustomerEmail != "" {
		form.Set("receipt_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent PaymentIntent
	if err := c.post(ctx, "/v1/payment_intents", form, &intent); err != nil {
		return nil, err
	}

	return &intent, nil
}

func (c *StripeClient) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.NewProviderError("stripe", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewProviderError("stripe", fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) // nolint:errcheck // drain for connection reuse
		_ = resp.Body.Close()                 // nolint:errcheck // cleanup in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewProviderError("stripe", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return errors.NewProviderError("stripe", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewProviderError("stripe", fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

// StripeEvent is an inbound webhook event envelope
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// VerifySignature checks a Stripe-Signature header against the raw payload.
// The header carries a unix timestamp and one or more v1 HMAC-SHA256
// signatures over "<timestamp>.<payload>".
func (c *StripeClient) VerifySignature(payload []byte, header string, now time.Time) error {
	if header == "" {
		return errors.NewSignatureError("missing Stripe-Signature header")
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return errors.NewSignatureError("malformed signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return errors.NewSignatureError("malformed Stripe-Signature header")
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return errors.NewSignatureError("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return errors.NewSignatureError("no matching v1 signature")
}

// ParseEvent verifies and decodes a webhook delivery
func (c *StripeClient) ParseEvent(payload []byte, header string, now time.Time) (*StripeEvent, error) {
	if err := c.VerifySignature(payload, header, now); err != nil {
		return nil, err
	}

	var event StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("malformed event payload: %v", err))
	}

	return &event, nil
}

// SignPayload produces a Stripe-Signature header value for a payload. Tests
// use it to exercise the webhook path end to end.
func (c *StripeClient) SignPayload(payload []byte, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
