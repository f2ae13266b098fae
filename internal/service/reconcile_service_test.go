package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/academy-backend/internal/email"
	"github.com/academy-backend/internal/errors"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reconcileFixture struct {
	svc           *ReconcileService
	verifier      *mockStripeVerifier
	fetcher       *mockMercadoPagoFetcher
	payments      *mockPaymentStore
	profiles      *mockProfileStore
	progress      *mockProgressStore
	notifications *mockNotificationStore
	sender        *mockEmailSender
	eventLog      *mockEventLog
}

func newReconcileFixture(profiles ...*models.Profile) *reconcileFixture {
	f := &reconcileFixture{
		verifier:      &mockStripeVerifier{},
		fetcher:       &mockMercadoPagoFetcher{payments: make(map[string]*provider.MercadoPagoPayment)},
		payments:      &mockPaymentStore{},
		profiles:      newMockProfileStore(profiles...),
		progress:      newMockProgressStore(),
		notifications: &mockNotificationStore{},
		sender:        &mockEmailSender{},
		eventLog:      &mockEventLog{},
	}
	f.svc = NewReconcileService(
		f.verifier,
		f.fetcher,
		f.payments,
		f.profiles,
		f.progress,
		f.notifications,
		email.NewTemplates("https://example.com"),
		f.sender,
		f.eventLog,
		testLogger(),
	)
	return f
}

func student(id string, fase types.Phase) *models.Profile {
	return &models.Profile{
		ID:     id,
		Email:  id + "@example.com",
		Nombre: "Ana",
		Rol:    types.RoleStudent,
		Fase:   fase,
		Estado: types.AccountActive,
	}
}

func TestStripeStatusTable(t *testing.T) {
	tests := []struct {
		in   string
		want types.PaymentStatus
	}{
		{"paid", types.PaymentCompleted},
		{"no_payment_required", types.PaymentCompleted},
		{"unpaid", types.PaymentPending},
		{"", types.PaymentPending},
		{"something_new", types.PaymentPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripeStatus(tt.in), "status %q", tt.in)
	}
}

func TestMercadoPagoStatusTable(t *testing.T) {
	tests := []struct {
		in   string
		want types.PaymentStatus
	}{
		{"approved", types.PaymentCompleted},
		{"pending", types.PaymentPending},
		{"authorized", types.PaymentPending},
		{"in_process", types.PaymentPending},
		{"in_mediation", types.PaymentPending},
		{"rejected", types.PaymentRejected},
		{"cancelled", types.PaymentRejected},
		{"refunded", types.PaymentRejected},
		{"charged_back", types.PaymentRejected},
		{"", types.PaymentPending},
		{"brand_new_status", types.PaymentPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MercadoPagoStatus(tt.in), "status %q", tt.in)
	}
}

func TestHandleStripeEventRejectsBadSignature(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.verifier.err = errors.NewSignatureError("no matching v1 signature")

	outcome, err := f.svc.HandleStripeEvent(context.Background(), []byte(`{}`), "t=1,v1=bad")
	require.Error(t, err)
	assert.Equal(t, types.OutcomeRejected, outcome)
	assert.Empty(t, f.payments.upserts)
	assert.Zero(t, f.progress.initCall)
}

func TestHandleStripeEventIgnoresOtherEventTypes(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))

	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{}}}`)
	outcome, err := f.svc.HandleStripeEvent(context.Background(), payload, "t=1,v1=ok")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeIgnored, outcome)
	assert.Empty(t, f.payments.upserts)
}

func TestHandleStripeEventIgnoresMissingMetadata(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))

	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "payment_status": "paid", "metadata": {}}}
	}`)
	outcome, err := f.svc.HandleStripeEvent(context.Background(), payload, "t=1,v1=ok")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeIgnored, outcome)
	assert.Empty(t, f.payments.upserts)
	assert.Zero(t, f.progress.initCall)
}

func stripeCompletedPayload(producto string) []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_1",
			"payment_intent": "pi_1",
			"payment_status": "paid",
			"amount_total": 1000,
			"currency": "usd",
			"customer_email": "ana@example.com",
			"metadata": {"user_id": "user-1", "producto_id": "` + producto + `"}
		}}
	}`)
}

func TestHandleStripeEventGrantsFase1(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))

	outcome, err := f.svc.HandleStripeEvent(context.Background(), stripeCompletedPayload("fase1"), "t=1,v1=ok")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeReconciled, outcome)

	require.Len(t, f.payments.upserts, 1)
	payment := f.payments.upserts[0]
	assert.Equal(t, "user-1", payment.UserID)
	assert.Equal(t, types.PaymentCompleted, payment.Estado)
	assert.Equal(t, "pi_1", payment.ProviderPaymentID)
	assert.Equal(t, 10.0, payment.Monto)

	profile, _ := f.profiles.GetByID(context.Background(), "user-1")
	assert.Equal(t, types.PhaseOne, profile.Fase)
	assert.Len(t, f.progress.rows["user-1"], len(types.CourseModules))
	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, []string{"user-1@example.com"}, f.sender.sent)
}

func TestHandleStripeEventGrantIsIdempotent(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.HandleStripeEvent(ctx, stripeCompletedPayload("fase1"), "t=1,v1=ok")
		require.NoError(t, err)
	}

	profile, _ := f.profiles.GetByID(ctx, "user-1")
	assert.Equal(t, types.PhaseOne, profile.Fase)
	assert.Equal(t, 1, f.profiles.phaseSets, "phase written once, redeliveries see no change")
	assert.Len(t, f.progress.rows["user-1"], len(types.CourseModules))
}

func TestGrantAccessPreservesPhaseTwo(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseTwo))
	ctx := context.Background()

	require.NoError(t, f.svc.GrantAccess(ctx, "user-1", types.ProductFase1))

	profile, _ := f.profiles.GetByID(ctx, "user-1")
	assert.Equal(t, types.PhaseBoth, profile.Fase)
}

func TestGrantAccessBot(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseOne))
	ctx := context.Background()

	require.NoError(t, f.svc.GrantAccess(ctx, "user-1", types.ProductBot))
	require.NoError(t, f.svc.GrantAccess(ctx, "user-1", types.ProductBot))

	profile, _ := f.profiles.GetByID(ctx, "user-1")
	assert.True(t, profile.BotActivo)
	assert.Equal(t, types.PhaseOne, profile.Fase, "bot purchase leaves phase untouched")
	assert.Zero(t, f.progress.initCall)
}

func TestHandleMercadoPagoEventRefetchesPayment(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.fetcher.payments["123"] = &provider.MercadoPagoPayment{
		ID:                123,
		Status:            "approved",
		TransactionAmount: 9999,
		CurrencyID:        "ARS",
		ExternalReference: `{"user_id":"user-1","producto_id":"fase1"}`,
		Payer:             &provider.PaymentPayer{Email: "ana@example.com"},
	}

	body := []byte(`{"type":"payment","action":"payment.updated","data":{"id":123}}`)
	outcome := f.svc.HandleMercadoPagoEvent(context.Background(), url.Values{}, body)
	assert.Equal(t, types.OutcomeReconciled, outcome)
	assert.Equal(t, 1, f.fetcher.fetches)

	require.Len(t, f.payments.upserts, 1)
	payment := f.payments.upserts[0]
	assert.Equal(t, types.PaymentCompleted, payment.Estado)
	assert.Equal(t, "123", payment.ProviderPaymentID)
	assert.Equal(t, types.ProviderMercadoPago, payment.Provider)

	profile, _ := f.profiles.GetByID(context.Background(), "user-1")
	assert.Equal(t, types.PhaseOne, profile.Fase)
}

func TestHandleMercadoPagoEventPendingDoesNotGrant(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.fetcher.payments["55"] = &provider.MercadoPagoPayment{
		ID:                55,
		Status:            "in_process",
		TransactionAmount: 9999,
		CurrencyID:        "ARS",
		ExternalReference: `{"user_id":"user-1","producto_id":"fase1"}`,
	}

	body := []byte(`{"type":"payment","data":{"id":55}}`)
	outcome := f.svc.HandleMercadoPagoEvent(context.Background(), url.Values{}, body)
	assert.Equal(t, types.OutcomeReconciled, outcome)

	require.Len(t, f.payments.upserts, 1)
	assert.Equal(t, types.PaymentPending, f.payments.upserts[0].Estado)

	profile, _ := f.profiles.GetByID(context.Background(), "user-1")
	assert.Equal(t, types.PhaseNone, profile.Fase)
	assert.Empty(t, f.notifications.created)
	assert.Empty(t, f.sender.sent)
}

func TestHandleMercadoPagoEventIgnoresNonPayment(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))

	body := []byte(`{"type":"merchant_order","data":{"id":9}}`)
	outcome := f.svc.HandleMercadoPagoEvent(context.Background(), url.Values{}, body)
	assert.Equal(t, types.OutcomeIgnored, outcome)
	assert.Zero(t, f.fetcher.fetches)
	assert.Empty(t, f.payments.upserts)
}

func TestHandleMercadoPagoEventFetchFailureWritesNothing(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.fetcher.err = errors.NewProviderError("mercadopago", assert.AnError)

	body := []byte(`{"type":"payment","data":{"id":77}}`)
	outcome := f.svc.HandleMercadoPagoEvent(context.Background(), url.Values{}, body)
	assert.Equal(t, types.OutcomeIgnored, outcome)
	assert.Empty(t, f.payments.upserts)
}

func TestHandleMercadoPagoEventQueryStyleNotification(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.fetcher.payments["88"] = &provider.MercadoPagoPayment{
		ID:                88,
		Status:            "rejected",
		TransactionAmount: 7500,
		CurrencyID:        "ARS",
		ExternalReference: `{"user_id":"user-1","producto_id":"bot"}`,
	}

	query := url.Values{"topic": {"payment"}, "id": {"88"}}
	outcome := f.svc.HandleMercadoPagoEvent(context.Background(), query, nil)
	assert.Equal(t, types.OutcomeReconciled, outcome)

	require.Len(t, f.payments.upserts, 1)
	assert.Equal(t, types.PaymentRejected, f.payments.upserts[0].Estado)

	profile, _ := f.profiles.GetByID(context.Background(), "user-1")
	assert.False(t, profile.BotActivo)
}

func TestHandleStripeEventEmailFailureDoesNotAffectGrant(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))
	f.sender.err = assert.AnError

	outcome, err := f.svc.HandleStripeEvent(context.Background(), stripeCompletedPayload("fase1"), "t=1,v1=ok")
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeReconciled, outcome)

	profile, _ := f.profiles.GetByID(context.Background(), "user-1")
	assert.Equal(t, types.PhaseOne, profile.Fase)
	require.Len(t, f.notifications.created, 1)
}

func TestAuditLogRecordsOutcomes(t *testing.T) {
	f := newReconcileFixture(student("user-1", types.PhaseNone))

	_, _ = f.svc.HandleStripeEvent(context.Background(), stripeCompletedPayload("fase1"), "t=1,v1=ok")
	require.Len(t, f.eventLog.events, 1)
	assert.Equal(t, types.OutcomeReconciled, f.eventLog.events[0].Outcome)

	payload := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{}}}`)
	_, _ = f.svc.HandleStripeEvent(context.Background(), payload, "t=1,v1=ok")
	require.Len(t, f.eventLog.events, 2)
	assert.Equal(t, types.OutcomeIgnored, f.eventLog.events[1].Outcome)
}
