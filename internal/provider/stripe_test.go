package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeVerifySignature(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	t.Run("valid signature", func(t *testing.T) {
		header := client.SignPayload(payload, now)
		assert.NoError(t, client.VerifySignature(payload, header, now))
	})

	t.Run("missing header", func(t *testing.T) {
		err := client.VerifySignature(payload, "", now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing Stripe-Signature")
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewStripeClient("sk_test_123", "whsec_other")
		header := other.SignPayload(payload, now)
		err := client.VerifySignature(payload, header, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no matching v1 signature")
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := client.SignPayload(payload, now)
		err := client.VerifySignature([]byte(`{"id":"evt_2"}`), header, now)
		assert.Error(t, err)
	})

	t.Run("expired timestamp", func(t *testing.T) {
		header := client.SignPayload(payload, now.Add(-10*time.Minute))
		err := client.VerifySignature(payload, header, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside tolerance")
	})

	t.Run("malformed header", func(t *testing.T) {
		err := client.VerifySignature(payload, "t=abc,v1=deadbeef", now)
		assert.Error(t, err)
	})
}

func TestStripeParseEvent(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	now := time.Now()

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "payment_status": "paid"}}
	}`)

	event, err := client.ParseEvent(payload, client.SignPayload(payload, now), now)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Type)

	var session CheckoutSession
	require.NoError(t, json.Unmarshal(event.Data.Object, &session))
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "paid", session.PaymentStatus)
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "1000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "fase1", r.PostForm.Get("metadata[producto]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1"}`))
	}))
	defer server.Close()

	client := NewStripeClient("sk_test_123", "whsec_test")
	client.SetBaseURL(server.URL)

	session, err := client.CreateCheckoutSession(context.Background(), &CheckoutSessionParams{
		AmountCents: 1000,
		Currency:    "usd",
		ProductName: "Curso Fase 1",
		SuccessURL:  "https://example.com/ok",
		CancelURL:   "https://example.com/no",
		Metadata:    map[string]string{"producto": "fase1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Contains(t, session.URL, "checkout.stripe.com")
}

func TestStripeCreateCheckoutSessionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer server.Close()

	client := NewStripeClient("sk_test_123", "whsec_test")
	client.SetBaseURL(server.URL)

	_, err := client.CreateCheckoutSession(context.Background(), &CheckoutSessionParams{
		AmountCents: 1000,
		Currency:    "usd",
		ProductName: "Curso Fase 1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_ERROR")
}
