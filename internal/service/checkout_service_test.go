package service

import (
	"context"
	"testing"

	"github.com/academy-backend/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStripeCheckout counts provider calls and serves canned results
type mockStripeCheckout struct {
	sessions int
	intents  int
	lastSess *provider.CheckoutSessionParams
}

func (m *mockStripeCheckout) CreateCheckoutSession(_ context.Context, params *provider.CheckoutSessionParams) (*provider.CheckoutSession, error) {
	m.sessions++
	m.lastSess = params
	return &provider.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/pay/cs_1"}, nil
}

func (m *mockStripeCheckout) CreatePaymentIntent(_ context.Context, _ *provider.PaymentIntentParams) (*provider.PaymentIntent, error) {
	m.intents++
	return &provider.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

// mockMercadoPagoCheckout counts provider calls and serves canned results
type mockMercadoPagoCheckout struct {
	preferences int
	payments    int
	lastPref    *provider.PreferenceParams
	lastPayment *provider.PaymentParams
}

func (m *mockMercadoPagoCheckout) CreatePreference(_ context.Context, params *provider.PreferenceParams) (*provider.Preference, error) {
	m.preferences++
	m.lastPref = params
	return &provider.Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}, nil
}

func (m *mockMercadoPagoCheckout) CreatePayment(_ context.Context, params *provider.PaymentParams) (*provider.MercadoPagoPayment, error) {
	m.payments++
	m.lastPayment = params
	return &provider.MercadoPagoPayment{ID: 9, Status: "approved", StatusDetail: "accredited"}, nil
}

func newCheckoutFixture() (*CheckoutService, *mockStripeCheckout, *mockMercadoPagoCheckout) {
	stripe := &mockStripeCheckout{}
	mp := &mockMercadoPagoCheckout{}
	svc := NewCheckoutService(stripe, mp, "https://example.com", testLogger())
	return svc, stripe, mp
}

func validRequest(producto string) *CheckoutRequest {
	return &CheckoutRequest{
		ProductoID: producto,
		UserID:     "user-1",
		UserEmail:  "ana@example.com",
		UserName:   "Ana",
	}
}

func TestCreateStripeCheckout(t *testing.T) {
	svc, stripe, _ := newCheckoutFixture()

	result, err := svc.CreateStripeCheckout(context.Background(), validRequest("fase1"))
	require.NoError(t, err)
	assert.Equal(t, "cs_1", result.SessionID)
	assert.Equal(t, 1, stripe.sessions)
	assert.Equal(t, int64(1000), stripe.lastSess.AmountCents)
	assert.Equal(t, "user-1", stripe.lastSess.Metadata["user_id"])
	assert.Equal(t, "fase1", stripe.lastSess.Metadata["producto_id"])
}

func TestCheckoutUnknownProductNeverCallsProvider(t *testing.T) {
	svc, stripe, mp := newCheckoutFixture()
	ctx := context.Background()

	_, err := svc.CreateStripeCheckout(ctx, validRequest("premium"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_PRODUCT")

	_, err = svc.CreateStripeIntent(ctx, validRequest("premium"))
	require.Error(t, err)

	_, err = svc.CreateMercadoPagoCheckout(ctx, validRequest("premium"))
	require.Error(t, err)

	assert.Zero(t, stripe.sessions)
	assert.Zero(t, stripe.intents)
	assert.Zero(t, mp.preferences)
}

func TestCheckoutMissingFields(t *testing.T) {
	svc, stripe, _ := newCheckoutFixture()

	for _, req := range []*CheckoutRequest{
		{UserID: "user-1", UserEmail: "a@b.c"},
		{ProductoID: "fase1", UserEmail: "a@b.c"},
		{ProductoID: "fase1", UserID: "user-1"},
	} {
		_, err := svc.CreateStripeCheckout(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_INPUT")
	}
	assert.Zero(t, stripe.sessions)
}

func TestCreateMercadoPagoCheckoutCarriesExternalReference(t *testing.T) {
	svc, _, mp := newCheckoutFixture()

	result, err := svc.CreateMercadoPagoCheckout(context.Background(), validRequest("bot"))
	require.NoError(t, err)
	assert.Equal(t, "pref-1", result.ID)

	require.Equal(t, 1, mp.preferences)
	require.Len(t, mp.lastPref.Items, 1)
	assert.Equal(t, 7500.0, mp.lastPref.Items[0].UnitPrice)

	userID, producto, ok := DecodeExternalReference(mp.lastPref.ExternalReference)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "bot", string(producto))
}

func TestProcessMercadoPagoCard(t *testing.T) {
	svc, _, mp := newCheckoutFixture()

	req := &ProcessCardRequest{
		CheckoutRequest: *validRequest("fase1"),
		Token:           "card-token",
		PaymentMethodID: "visa",
	}
	result, err := svc.ProcessMercadoPagoCard(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "approved", result.Status)
	assert.Equal(t, 1, mp.lastPayment.Installments, "installments default to 1")
	assert.Equal(t, 9999.0, mp.lastPayment.TransactionAmount)
}

func TestProcessMercadoPagoCardRequiresToken(t *testing.T) {
	svc, _, mp := newCheckoutFixture()

	req := &ProcessCardRequest{CheckoutRequest: *validRequest("fase1")}
	_, err := svc.ProcessMercadoPagoCard(context.Background(), req)
	require.Error(t, err)
	assert.Zero(t, mp.payments)
}

func TestDecodeExternalReferenceRejectsGarbage(t *testing.T) {
	for _, ref := range []string{"", "not json", `{}`, `{"user_id":"x"}`, `{"producto_id":"fase1"}`} {
		_, _, ok := DecodeExternalReference(ref)
		assert.False(t, ok, "ref %q", ref)
	}
}
