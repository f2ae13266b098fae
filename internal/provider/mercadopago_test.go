package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMercadoPagoCreatePreference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer TEST-TOKEN", r.Header.Get("Authorization"))

		var params PreferenceParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		require.Len(t, params.Items, 1)
		assert.Equal(t, 9999.0, params.Items[0].UnitPrice)
		assert.Equal(t, "ARS", params.Items[0].CurrencyID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://www.mercadopago.com/init/pref-1"}`))
	}))
	defer server.Close()

	client := NewMercadoPagoClient("TEST-TOKEN")
	client.SetBaseURL(server.URL)

	pref, err := client.CreatePreference(context.Background(), &PreferenceParams{
		Items: []PreferenceItem{{Title: "Curso Fase 1", Quantity: 1, UnitPrice: 9999, CurrencyID: "ARS"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Contains(t, pref.InitPoint, "mercadopago.com")
}

func TestMercadoPagoCreatePaymentSendsIdempotencyKey(t *testing.T) {
	var seenKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		seenKeys = append(seenKeys, r.Header.Get("X-Idempotency-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":123,"status":"approved","transaction_amount":9999}`))
	}))
	defer server.Close()

	client := NewMercadoPagoClient("TEST-TOKEN")
	client.SetBaseURL(server.URL)

	params := &PaymentParams{Token: "card-token", TransactionAmount: 9999, Installments: 1, PaymentMethodID: "visa"}

	payment, err := client.CreatePayment(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, int64(123), payment.ID)
	assert.Equal(t, "approved", payment.Status)

	_, err = client.CreatePayment(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, seenKeys, 2)
	assert.NotEmpty(t, seenKeys[0])
	assert.NotEqual(t, seenKeys[0], seenKeys[1])
}

func TestMercadoPagoGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/456", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 456,
			"status": "approved",
			"transaction_amount": 7500,
			"currency_id": "ARS",
			"external_reference": "{\"user_id\":\"user-1\",\"producto_id\":\"bot\"}",
			"payer": {"email": "ana@example.com"}
		}`))
	}))
	defer server.Close()

	client := NewMercadoPagoClient("TEST-TOKEN")
	client.SetBaseURL(server.URL)

	payment, err := client.GetPayment(context.Background(), "456")
	require.NoError(t, err)
	assert.Equal(t, int64(456), payment.ID)
	assert.Equal(t, "approved", payment.Status)
	assert.Equal(t, "ana@example.com", payment.Payer.Email)
	assert.Contains(t, payment.ExternalReference, "user-1")
}

func TestMercadoPagoGetPaymentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Payment not found"}`))
	}))
	defer server.Close()

	client := NewMercadoPagoClient("TEST-TOKEN")
	client.SetBaseURL(server.URL)

	_, err := client.GetPayment(context.Background(), "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_ERROR")
}
