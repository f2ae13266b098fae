package api

import (
	"net/http"

	"github.com/academy-backend/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

type registerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister handles POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	session, err := s.auth.Register(r.Context(), req.Nombre, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// handleResetPassword handles POST /api/auth/reset-password. The response is
// the same whether or not the account exists.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	s.auth.ResetPassword(r.Context(), req.Email)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Si el email existe, vas a recibir instrucciones para restablecer tu contraseña.",
	})
}

// handleLogout handles POST /api/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	if err := s.auth.Logout(r.Context(), profile.ID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSession handles GET /api/auth/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]*models.Profile{
		"profile": profileFromContext(r.Context()),
	})
}

// handleGetProfile handles GET /api/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, profileFromContext(r.Context()))
}

// handleUpdateProfile handles PUT /api/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var update models.ProfileUpdate
	if err := parseJSONBody(r, &update); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	updated, err := s.auth.UpdateProfile(r.Context(), profile.ID, &update)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
