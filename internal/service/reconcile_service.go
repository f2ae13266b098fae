package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/academy-backend/internal/catalog"
	"github.com/academy-backend/internal/email"
	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/storage"
	"github.com/academy-backend/internal/types"
)

// StripeStatus maps a Stripe checkout payment_status to the internal payment
// state. Unknown values stay pendiente until a later delivery settles them.
func StripeStatus(paymentStatus string) types.PaymentStatus {
	switch paymentStatus {
	case "paid", "no_payment_required":
		return types.PaymentCompleted
	case "unpaid":
		return types.PaymentPending
	default:
		return types.PaymentPending
	}
}

// MercadoPagoStatus maps a MercadoPago payment status to the internal payment
// state. Unknown values stay pendiente.
func MercadoPagoStatus(status string) types.PaymentStatus {
	switch status {
	case "approved":
		return types.PaymentCompleted
	case "pending", "authorized", "in_process", "in_mediation":
		return types.PaymentPending
	case "rejected", "cancelled", "refunded", "charged_back":
		return types.PaymentRejected
	default:
		return types.PaymentPending
	}
}

// stripeWebhookAPI verifies inbound Stripe deliveries
type stripeWebhookAPI interface {
	VerifySignature(payload []byte, header string, now time.Time) error
}

// mercadoPagoFetchAPI re-fetches the canonical payment. Trusting only what
// the API returns for the reported id is MercadoPago's integrity check; there
// is no signature to verify.
type mercadoPagoFetchAPI interface {
	GetPayment(ctx context.Context, paymentID string) (*provider.MercadoPagoPayment, error)
}

// paymentStore persists reconciled payment records
type paymentStore interface {
	Upsert(ctx context.Context, payment *models.Payment) error
}

// grantStore mutates profile entitlements
type grantStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetPhase(ctx context.Context, userID string) (types.Phase, error)
	SetPhase(ctx context.Context, userID string, fase types.Phase) error
	SetBotActive(ctx context.Context, userID string, active bool) error
}

// progressStore seeds course progress rows
type progressStore interface {
	InitModules(ctx context.Context, userID string, modules []string) error
}

// notificationStore creates dashboard notifications
type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// emailSender delivers rendered emails
type emailSender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// eventLogger appends webhook outcomes to the audit log
type eventLogger interface {
	Append(ctx context.Context, event *storage.WebhookEvent) error
}

// ReconcileService translates provider webhook deliveries into payment
// records and access grants. Every path is idempotent: providers redeliver.
type ReconcileService struct {
	stripe        stripeWebhookAPI
	mercadoPago   mercadoPagoFetchAPI
	payments      paymentStore
	profiles      grantStore
	progress      progressStore
	notifications notificationStore
	templates     *email.Templates
	sender        emailSender
	eventLog      eventLogger
	logger        *logging.Logger
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	stripe stripeWebhookAPI,
	mercadoPago mercadoPagoFetchAPI,
	payments paymentStore,
	profiles grantStore,
	progress progressStore,
	notifications notificationStore,
	templates *email.Templates,
	sender emailSender,
	eventLog eventLogger,
	logger *logging.Logger,
) *ReconcileService {
	return &ReconcileService{
		stripe:        stripe,
		mercadoPago:   mercadoPago,
		payments:      payments,
		profiles:      profiles,
		progress:      progress,
		notifications: notifications,
		templates:     templates,
		sender:        sender,
		eventLog:      eventLog,
		logger:        logger,
	}
}

func (s *ReconcileService) audit(ctx context.Context, prov types.Provider, eventType, paymentID string, outcome types.WebhookOutcome, detail string) {
	if s.eventLog == nil {
		return
	}
	err := s.eventLog.Append(ctx, &storage.WebhookEvent{
		Provider:          prov,
		EventType:         eventType,
		ProviderPaymentID: paymentID,
		Outcome:           outcome,
		Detail:            detail,
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to append webhook audit event")
	}
}

// HandleStripeEvent processes one Stripe webhook delivery. A returned error
// means the delivery failed authenticity checks and must get a 4xx; every
// other outcome is a 200 regardless of what happened inside.
func (s *ReconcileService) HandleStripeEvent(ctx context.Context, payload []byte, signatureHeader string) (types.WebhookOutcome, error) {
	if err := s.stripe.VerifySignature(payload, signatureHeader, time.Now()); err != nil {
		s.audit(ctx, types.ProviderStripe, "", "", types.OutcomeRejected, err.Error())
		return types.OutcomeRejected, err
	}

	var event provider.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.WithError(err).Warn("stripe webhook: malformed event payload")
		s.audit(ctx, types.ProviderStripe, "", "", types.OutcomeIgnored, "malformed payload")
		return types.OutcomeIgnored, nil
	}

	if event.Type != "checkout.session.completed" {
		s.audit(ctx, types.ProviderStripe, event.Type, "", types.OutcomeIgnored, "unhandled event type")
		return types.OutcomeIgnored, nil
	}

	var session provider.CheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		s.logger.WithError(err).Warn("stripe webhook: malformed session object")
		s.audit(ctx, types.ProviderStripe, event.Type, "", types.OutcomeIgnored, "malformed session object")
		return types.OutcomeIgnored, nil
	}

	userID := session.Metadata["user_id"]
	productoID := types.ProductID(session.Metadata["producto_id"])
	product, known := catalog.Lookup(productoID)
	if userID == "" || !known {
		s.logger.WithFields(map[string]interface{}{
			"session":  session.ID,
			"producto": string(productoID),
		}).Warn("stripe webhook: session has no usable attribution metadata")
		s.audit(ctx, types.ProviderStripe, event.Type, session.ID, types.OutcomeIgnored, "missing attribution metadata")
		return types.OutcomeIgnored, nil
	}

	providerPaymentID := session.PaymentIntent
	if providerPaymentID == "" {
		providerPaymentID = session.ID
	}

	payment := &models.Payment{
		UserID:            userID,
		Monto:             float64(session.AmountTotal) / 100,
		Moneda:            session.Currency,
		Metodo:            "stripe",
		Concepto:          product.Concept(types.ProviderStripe),
		Estado:            StripeStatus(session.PaymentStatus),
		Producto:          product.ID,
		Provider:          types.ProviderStripe,
		ProviderPaymentID: providerPaymentID,
		ProviderStatus:    session.PaymentStatus,
		Metadata: map[string]interface{}{
			"session_id":     session.ID,
			"customer_email": session.CustomerEmail,
		},
	}

	s.reconcile(ctx, payment)
	s.audit(ctx, types.ProviderStripe, event.Type, providerPaymentID, types.OutcomeReconciled, string(payment.Estado))

	return types.OutcomeReconciled, nil
}

// MercadoPagoNotification is the inbound webhook body MercadoPago sends
type MercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// HandleMercadoPagoEvent processes one MercadoPago webhook delivery. The
// notification body is never trusted: the payment is re-fetched by id and
// only the API response drives reconciliation.
func (s *ReconcileService) HandleMercadoPagoEvent(ctx context.Context, query url.Values, body []byte) types.WebhookOutcome {
	var notification MercadoPagoNotification
	if len(body) > 0 {
		if err := json.Unmarshal(body, &notification); err != nil {
			s.logger.WithError(err).Warn("mercadopago webhook: malformed notification body")
		}
	}

	paymentID := notification.Data.ID.String()
	if paymentID == "" || paymentID == "0" {
		// Legacy IPN style puts the id in the query string
		if query.Get("topic") == "payment" || query.Get("type") == "payment" {
			paymentID = query.Get("id")
			if paymentID == "" {
				paymentID = query.Get("data.id")
			}
		}
	}

	isPaymentEvent := notification.Type == "payment" ||
		notification.Action == "payment.created" || notification.Action == "payment.updated" ||
		query.Get("topic") == "payment" || query.Get("type") == "payment"

	if !isPaymentEvent || paymentID == "" {
		s.audit(ctx, types.ProviderMercadoPago, notification.Type, paymentID, types.OutcomeIgnored, "not a payment event")
		return types.OutcomeIgnored
	}

	canonical, err := s.mercadoPago.GetPayment(ctx, paymentID)
	if err != nil {
		// Cannot confirm the payment exists, so nothing is written
		s.logger.WithError(err).WithField("payment_id", paymentID).Warn("mercadopago webhook: payment fetch failed")
		s.audit(ctx, types.ProviderMercadoPago, notification.Type, paymentID, types.OutcomeIgnored, "payment fetch failed")
		return types.OutcomeIgnored
	}

	userID, productoID, ok := DecodeExternalReference(canonical.ExternalReference)
	if !ok {
		userID, productoID, ok = attributionFromMetadata(canonical.Metadata)
	}
	product, known := catalog.Lookup(productoID)
	if !ok || !known {
		s.logger.WithField("payment_id", paymentID).Warn("mercadopago webhook: payment has no usable attribution")
		s.audit(ctx, types.ProviderMercadoPago, notification.Type, paymentID, types.OutcomeIgnored, "missing attribution")
		return types.OutcomeIgnored
	}

	payerEmail := ""
	if canonical.Payer != nil {
		payerEmail = canonical.Payer.Email
	}

	payment := &models.Payment{
		UserID:            userID,
		Monto:             canonical.TransactionAmount,
		Moneda:            canonical.CurrencyID,
		Metodo:            "mercadopago",
		Concepto:          product.Concept(types.ProviderMercadoPago),
		Estado:            MercadoPagoStatus(canonical.Status),
		Producto:          product.ID,
		Provider:          types.ProviderMercadoPago,
		ProviderPaymentID: strconv.FormatInt(canonical.ID, 10),
		ProviderStatus:    canonical.Status,
		Metadata: map[string]interface{}{
			"status_detail": canonical.StatusDetail,
			"payer_email":   payerEmail,
		},
	}

	s.reconcile(ctx, payment)
	s.audit(ctx, types.ProviderMercadoPago, notification.Type, payment.ProviderPaymentID, types.OutcomeReconciled, string(payment.Estado))

	return types.OutcomeReconciled
}

// attributionFromMetadata is the fallback when external_reference is absent
// or malformed
func attributionFromMetadata(metadata map[string]interface{}) (string, types.ProductID, bool) {
	userID, _ := metadata["user_id"].(string)
	producto, _ := metadata["producto_id"].(string)
	if userID == "" || producto == "" {
		return "", "", false
	}
	return userID, types.ProductID(producto), true
}

// reconcile records the payment and, if it is confirmed, grants access.
// Failures are logged but never bubble up: the provider already has our 200
// by contract, and redelivery will retry.
func (s *ReconcileService) reconcile(ctx context.Context, payment *models.Payment) {
	if err := s.payments.Upsert(ctx, payment); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"provider":   string(payment.Provider),
			"payment_id": payment.ProviderPaymentID,
		}).Error("failed to record payment")
	}

	if payment.Estado != types.PaymentCompleted {
		return
	}

	if err := s.GrantAccess(ctx, payment.UserID, payment.Producto); err != nil {
		s.logger.WithError(err).WithField("user_id", payment.UserID).Error("failed to grant access")
		return
	}

	s.notifyPurchase(ctx, payment)
}

// GrantAccess applies the entitlement for a confirmed purchase. Safe to call
// any number of times for the same purchase.
func (s *ReconcileService) GrantAccess(ctx context.Context, userID string, producto types.ProductID) error {
	switch producto {
	case types.ProductFase1:
		current, err := s.profiles.GetPhase(ctx, userID)
		if err != nil {
			return err
		}
		next := types.UnionPhase(current, types.PhaseOne)
		if next != current {
			if err := s.profiles.SetPhase(ctx, userID, next); err != nil {
				return err
			}
		}
		return s.progress.InitModules(ctx, userID, types.CourseModules)

	case types.ProductBot:
		return s.profiles.SetBotActive(ctx, userID, true)

	default:
		return fmt.Errorf("unknown product: %s", producto)
	}
}

func (s *ReconcileService) notifyPurchase(ctx context.Context, payment *models.Payment) {
	var titulo, mensaje string
	switch payment.Producto {
	case types.ProductFase1:
		titulo = "¡Pago confirmado!"
		mensaje = "Tu acceso al Curso Fase 1 ya está activo. Empezá por Preparación del Gráfico."
	case types.ProductBot:
		titulo = "¡Bot activado!"
		mensaje = "Tu Bot de Trading ya está disponible en la sección Bot del dashboard."
	}

	err := s.notifications.Create(ctx, &models.Notification{
		UserID:  payment.UserID,
		Titulo:  titulo,
		Mensaje: mensaje,
		Tipo:    types.NotificationSuccess,
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to create purchase notification")
	}

	s.sendPurchaseEmail(ctx, payment)
}

// sendPurchaseEmail is best-effort: a mail outage never affects the grant
func (s *ReconcileService) sendPurchaseEmail(ctx context.Context, payment *models.Payment) {
	if s.sender == nil || s.templates == nil {
		return
	}

	profile, err := s.profiles.GetByID(ctx, payment.UserID)
	if err != nil {
		s.logger.WithError(err).Warn("skipping purchase email, profile unavailable")
		return
	}

	var msg *email.Message
	switch payment.Producto {
	case types.ProductFase1:
		msg = s.templates.WelcomeFase1(profile.Nombre)
	case types.ProductBot:
		msg = s.templates.WelcomeBot(profile.Nombre)
	default:
		return
	}

	if _, err := s.sender.Send(ctx, profile.Email, msg.Subject, msg.HTML); err != nil {
		s.logger.WithError(err).Warn("failed to send purchase email")
	}
}
