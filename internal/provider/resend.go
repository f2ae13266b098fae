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
)

const resendBaseURL = "https://api.resend.com"

// ResendClient sends transactional email through the Resend API
type ResendClient struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// NewResendClient creates a new Resend API client
func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendBaseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL (used by tests)
func (c *ResendClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send delivers one HTML email and returns the provider message id
func (c *ResendClient) Send(ctx context.Context, to, subject, html string) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", errors.NewProviderError("resend", fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", errors.NewProviderError("resend", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewProviderError("resend", fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) // nolint:errcheck // drain for connection reuse
		_ = resp.Body.Close()                 // nolint:errcheck // cleanup in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderError("resend", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewProviderError("resend", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var result resendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.NewProviderError("resend", fmt.Errorf("failed to decode response: %w", err))
	}

	return result.ID, nil
}
