package api

import (
	"net/http"
	"strconv"

	"github.com/academy-backend/internal/types"
	"github.com/gorilla/mux"
)

// handleGetProgress handles GET /api/progress
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	rows, err := s.dashboard.GetProgress(r.Context(), profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"progress": rows})
}

// handleCompleteModule handles POST /api/progress/{modulo}/complete
func (s *Server) handleCompleteModule(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())
	modulo := mux.Vars(r)["modulo"]

	if err := s.dashboard.CompleteModule(r.Context(), profile.ID, modulo); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleListPayments handles GET /api/payments
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	payments, err := s.dashboard.ListPayments(r.Context(), profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// handleListNotifications handles GET /api/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	notifications, err := s.dashboard.ListNotifications(r.Context(), profile.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// handleMarkNotificationRead handles POST /api/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.setNotificationRead(w, r, true)
}

// handleMarkNotificationUnread handles POST /api/notifications/{id}/unread
func (s *Server) handleMarkNotificationUnread(w http.ResponseWriter, r *http.Request) {
	s.setNotificationRead(w, r, false)
}

func (s *Server) setNotificationRead(w http.ResponseWriter, r *http.Request, leida bool) {
	profile := profileFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := s.dashboard.SetNotificationRead(r.Context(), id, profile.ID, leida); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleListUsers handles GET /api/admin/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := s.dashboard.ListUsers(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

type setEstadoRequest struct {
	Estado string `json:"estado"`
}

// handleSetAccountStatus handles PUT /api/admin/users/{id}/estado
func (s *Server) handleSetAccountStatus(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var req setEstadoRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	if err := s.dashboard.SetAccountStatus(r.Context(), userID, types.AccountStatus(req.Estado)); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type createNotificationRequest struct {
	UserID  string `json:"userId"`
	Titulo  string `json:"titulo"`
	Mensaje string `json:"mensaje"`
	Tipo    string `json:"tipo"`
}

// handleCreateNotification handles POST /api/admin/notifications
func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Cuerpo JSON inválido", nil)
		return
	}

	err := s.dashboard.CreateNotification(r.Context(), req.UserID, req.Titulo, req.Mensaje, types.NotificationType(req.Tipo))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
