package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
)

type contextKey string

const profileContextKey contextKey = "profile"

// profileFromContext returns the authenticated profile, or nil outside the
// auth middleware
func profileFromContext(ctx context.Context) *models.Profile {
	profile, _ := ctx.Value(profileContextKey).(*models.Profile)
	return profile
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// requireAuth resolves the session token and stores the profile in the
// request context. Suspended accounts are rejected inside GetSession.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sesión requerida", nil)
			return
		}

		profile, err := s.auth.GetSession(r.Context(), token)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// phaseCovers reports whether an enrolled phase satisfies a required one
func phaseCovers(enrolled, required types.Phase) bool {
	if enrolled == types.PhaseBoth {
		return true
	}
	return enrolled == required
}

// requirePhase gates course content behind an enrolled phase
func (s *Server) requirePhase(required types.Phase, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := profileFromContext(r.Context())
		if !phaseCovers(profile.Fase, required) {
			respondError(w, http.StatusForbidden, "FORBIDDEN", "No tenés acceso a este contenido", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates the admin endpoints
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := profileFromContext(r.Context())
		if profile.Rol != types.RoleAdmin {
			respondError(w, http.StatusForbidden, "FORBIDDEN", "Solo administradores", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
