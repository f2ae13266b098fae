package api

import (
	"net/http"
)

type waitlistRequest struct {
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// handleWaitlist handles POST /api/waitlist
func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	var req waitlistRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	if err := s.waitlist.Signup(r.Context(), req.Nombre, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "¡Listo! Te vamos a avisar cuando abra Fase 2.",
	})
}

// handlePaymentConfig handles GET /api/payment-config. Only publishable
// halves of the provider credentials leave the server.
func (s *Server) handlePaymentConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"stripe_publishable_key": s.keys.StripePublishableKey,
		"mercadopago_public_key": s.keys.MercadoPagoPublicKey,
	})
}

// handleExchangeRate handles GET /api/exchange-rate
func (s *Server) handleExchangeRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.rates.GetDolarBlue(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rate)
}
