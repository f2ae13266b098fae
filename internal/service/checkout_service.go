package service

import (
	"context"
	"encoding/json"

	"github.com/academy-backend/internal/catalog"
	"github.com/academy-backend/internal/errors"
	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/types"
)

// stripeAPI is the slice of the Stripe client checkout needs
type stripeAPI interface {
	CreateCheckoutSession(ctx context.Context, params *provider.CheckoutSessionParams) (*provider.CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, params *provider.PaymentIntentParams) (*provider.PaymentIntent, error)
}

// mercadoPagoAPI is the slice of the MercadoPago client checkout needs
type mercadoPagoAPI interface {
	CreatePreference(ctx context.Context, params *provider.PreferenceParams) (*provider.Preference, error)
	CreatePayment(ctx context.Context, params *provider.PaymentParams) (*provider.MercadoPagoPayment, error)
}

// CheckoutService starts payment flows with the two providers. It never
// persists anything; payment records only exist once a webhook confirms them.
type CheckoutService struct {
	stripe      stripeAPI
	mercadoPago mercadoPagoAPI
	siteURL     string
	logger      *logging.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(stripe stripeAPI, mercadoPago mercadoPagoAPI, siteURL string, logger *logging.Logger) *CheckoutService {
	return &CheckoutService{
		stripe:      stripe,
		mercadoPago: mercadoPago,
		siteURL:     siteURL,
		logger:      logger,
	}
}

// CheckoutRequest identifies who is buying what. The snake_case keys are the
// wire format the frontend sends.
type CheckoutRequest struct {
	ProductoID string `json:"producto_id"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	UserName   string `json:"user_nombre"`
}

func (s *CheckoutService) resolve(req *CheckoutRequest) (*catalog.Product, error) {
	if req.ProductoID == "" || req.UserID == "" || req.UserEmail == "" {
		return nil, errors.NewValidationError("producto_id, user_id y user_email son obligatorios")
	}

	product, ok := catalog.Lookup(types.ProductID(req.ProductoID))
	if !ok {
		return nil, errors.NewUnknownProductError(req.ProductoID)
	}

	return product, nil
}

// externalReference carries the buyer identity through MercadoPago so the
// webhook can attribute the payment without any local state.
type externalReference struct {
	UserID   string `json:"user_id"`
	Producto string `json:"producto_id"`
}

func encodeExternalReference(userID string, producto types.ProductID) string {
	data, _ := json.Marshal(externalReference{UserID: userID, Producto: string(producto)}) // nolint:errcheck // struct of strings cannot fail
	return string(data)
}

// DecodeExternalReference parses the reference back out of a webhook payload
func DecodeExternalReference(ref string) (userID string, producto types.ProductID, ok bool) {
	var decoded externalReference
	if err := json.Unmarshal([]byte(ref), &decoded); err != nil {
		return "", "", false
	}
	if decoded.UserID == "" || decoded.Producto == "" {
		return "", "", false
	}
	return decoded.UserID, types.ProductID(decoded.Producto), true
}

// StripeCheckoutResult is the hosted checkout handoff for the frontend
type StripeCheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateStripeCheckout creates a hosted Stripe Checkout session
func (s *CheckoutService) CreateStripeCheckout(ctx context.Context, req *CheckoutRequest) (*StripeCheckoutResult, error) {
	product, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, &provider.CheckoutSessionParams{
		AmountCents:   product.StripeAmountCents,
		Currency:      product.StripeCurrency,
		ProductName:   product.Title,
		CustomerEmail: req.UserEmail,
		SuccessURL:    s.siteURL + "/dashboard.html?pago=exitoso",
		CancelURL:     s.siteURL + "/index.html?pago=cancelado",
		Metadata: map[string]string{
			"user_id":     req.UserID,
			"producto_id": req.ProductoID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  req.UserID,
		"producto": req.ProductoID,
		"session":  session.ID,
	}).Info("stripe checkout session created")

	return &StripeCheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

// StripeIntentResult carries the client secret for embedded card collection
type StripeIntentResult struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateStripeIntent creates a PaymentIntent for on-site card collection
func (s *CheckoutService) CreateStripeIntent(ctx context.Context, req *CheckoutRequest) (*StripeIntentResult, error) {
	product, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, &provider.PaymentIntentParams{
		AmountCents:   product.StripeAmountCents,
		Currency:      product.StripeCurrency,
		CustomerEmail: req.UserEmail,
		Metadata: map[string]string{
			"user_id":     req.UserID,
			"producto_id": req.ProductoID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &StripeIntentResult{ClientSecret: intent.ClientSecret}, nil
}

// MercadoPagoCheckoutResult is the Checkout Pro handoff for the frontend
type MercadoPagoCheckoutResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreateMercadoPagoCheckout creates a Checkout Pro preference
func (s *CheckoutService) CreateMercadoPagoCheckout(ctx context.Context, req *CheckoutRequest) (*MercadoPagoCheckoutResult, error) {
	product, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	pref, err := s.mercadoPago.CreatePreference(ctx, &provider.PreferenceParams{
		Items: []provider.PreferenceItem{{
			Title:      product.Title,
			Quantity:   1,
			UnitPrice:  product.MercadoPagoUnitPrice,
			CurrencyID: product.MercadoPagoCurrency,
		}},
		Payer: &provider.PreferencePayer{
			Name:  req.UserName,
			Email: req.UserEmail,
		},
		BackURLs: provider.PreferenceBackURLs{
			Success: s.siteURL + "/dashboard.html?pago=exitoso",
			Failure: s.siteURL + "/index.html?pago=fallido",
			Pending: s.siteURL + "/dashboard.html?pago=pendiente",
		},
		AutoReturn:        "approved",
		ExternalReference: encodeExternalReference(req.UserID, product.ID),
		NotificationURL:   s.siteURL + "/api/mercadopago-webhook",
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":    req.UserID,
		"producto":   req.ProductoID,
		"preference": pref.ID,
	}).Info("mercadopago preference created")

	return &MercadoPagoCheckoutResult{
		ID:               pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}

// ProcessCardRequest is a direct card payment from a Bricks-tokenized card
type ProcessCardRequest struct {
	CheckoutRequest
	Token           string `json:"token"`
	Installments    int    `json:"installments"`
	PaymentMethodID string `json:"payment_method_id"`
}

// ProcessCardResult reports the immediate outcome of a direct card payment.
// The webhook remains the source of truth for access grants.
type ProcessCardResult struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

// ProcessMercadoPagoCard charges a tokenized card directly
func (s *CheckoutService) ProcessMercadoPagoCard(ctx context.Context, req *ProcessCardRequest) (*ProcessCardResult, error) {
	product, err := s.resolve(&req.CheckoutRequest)
	if err != nil {
		return nil, err
	}
	if req.Token == "" || req.PaymentMethodID == "" {
		return nil, errors.NewValidationError("token y paymentMethodId son obligatorios")
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	payment, err := s.mercadoPago.CreatePayment(ctx, &provider.PaymentParams{
		Token:             req.Token,
		TransactionAmount: product.MercadoPagoUnitPrice,
		Installments:      installments,
		PaymentMethodID:   req.PaymentMethodID,
		Description:       product.Concept(types.ProviderMercadoPago),
		ExternalReference: encodeExternalReference(req.UserID, product.ID),
		Payer:             &provider.PaymentPayer{Email: req.UserEmail},
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  req.UserID,
		"producto": req.ProductoID,
		"payment":  payment.ID,
		"status":   payment.Status,
	}).Info("mercadopago direct payment processed")

	return &ProcessCardResult{
		ID:           payment.ID,
		Status:       payment.Status,
		StatusDetail: payment.StatusDetail,
	}, nil
}
