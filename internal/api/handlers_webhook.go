package api

import (
	"io"
	"net/http"
)

// webhookAck is the body providers get when we have nothing to process.
// Both Stripe and MercadoPago probe their endpoints with GET and retry on
// anything that is not a 2xx, so non-POST traffic is acknowledged blindly.
func webhookAck(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleStripeWebhook handles /api/stripe-webhook. Only a missing or invalid
// signature produces a non-2xx response; every failure after the signature
// check is logged and acknowledged so Stripe does not retry a delivery we
// can never use.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		webhookAck(w)
		return
	}

	if !s.config.StripeWebhookConfigured {
		s.logger.Error("stripe webhook delivery received but STRIPE_WEBHOOK_SECRET is not set")
		respondError(w, http.StatusInternalServerError, "MISCONFIGURED", "Webhook no configurado", nil)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "No se pudo leer el cuerpo", nil)
		return
	}

	outcome, err := s.reconcile.HandleStripeEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Firma inválida", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"received": true,
		"outcome":  outcome,
	})
}

// handleMercadoPagoWebhook handles /api/mercadopago-webhook. MercadoPago
// notifications carry no signature; authenticity comes from re-fetching the
// payment by id, so the endpoint always answers 200.
func (s *Server) handleMercadoPagoWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		webhookAck(w)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		webhookAck(w)
		return
	}

	outcome := s.reconcile.HandleMercadoPagoEvent(r.Context(), r.URL.Query(), body)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"received": true,
		"outcome":  outcome,
	})
}
