package api

import (
	"net/http"

	"github.com/academy-backend/internal/service"
)

// handleStripeCreate handles POST /api/stripe-create
func (s *Server) handleStripeCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	result, err := s.checkout.CreateStripeCheckout(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleStripeCreateIntent handles POST /api/stripe-create-intent
func (s *Server) handleStripeCreateIntent(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	result, err := s.checkout.CreateStripeIntent(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleMercadoPagoCreate handles POST /api/mercadopago-create
func (s *Server) handleMercadoPagoCreate(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	result, err := s.checkout.CreateMercadoPagoCheckout(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleMercadoPagoProcess handles POST /api/mercadopago-process
func (s *Server) handleMercadoPagoProcess(w http.ResponseWriter, r *http.Request) {
	var req service.ProcessCardRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	result, err := s.checkout.ProcessMercadoPagoCard(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
