// Package service contains the business logic between the HTTP handlers and
// the storage layer.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried in a session token. The profile fields
// double as the last-resort session source when both the database and the
// cache are unavailable.
type Claims struct {
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Session is an authenticated session: the signed token plus the profile it
// resolves to.
type Session struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// AuthBackend is the credential and profile source behind AuthService. It has
// two implementations: the Postgres/Redis-backed store and the demo backend
// with hard-coded credentials. The variant is chosen once at startup.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*models.Profile, error)
	Register(ctx context.Context, nombre, email, password string) (*models.Profile, error)
	ResetPassword(ctx context.Context, email string) error
	ResolveSession(ctx context.Context, claims *Claims) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*models.Profile, error)
	Logout(ctx context.Context, userID string) error
}

// AuthService issues session tokens and delegates credential checks to its
// backend.
type AuthService struct {
	backend AuthBackend
	secret  []byte
	ttl     time.Duration
	logger  *logging.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(backend AuthBackend, jwtSecret string, tokenTTL time.Duration, logger *logging.Logger) *AuthService {
	return &AuthService{
		backend: backend,
		secret:  []byte(jwtSecret),
		ttl:     tokenTTL,
		logger:  logger,
	}
}

// Login checks credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "Email y contraseña son obligatorios"}
	}

	profile, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, translateAuthError(err)
	}

	if profile.Estado == types.AccountSuspended {
		return nil, &types.ServiceError{Code: "ACCOUNT_SUSPENDED", Message: "Tu cuenta está suspendida. Contactanos por Instagram."}
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": profile.ID,
		"rol":     profile.Rol,
	}).Info("user logged in")

	return &Session{Token: token, Profile: profile}, nil
}

// Register creates an account and issues a session token
func (s *AuthService) Register(ctx context.Context, nombre, email, password string) (*Session, error) {
	nombre = strings.TrimSpace(nombre)
	email = normalizeEmail(email)

	if nombre == "" || email == "" || password == "" {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "Nombre, email y contraseña son obligatorios"}
	}
	if !strings.Contains(email, "@") {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "Email no válido"}
	}
	if len(password) < 8 {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "La contraseña debe tener al menos 8 caracteres"}
	}

	profile, err := s.backend.Register(ctx, nombre, email, password)
	if err != nil {
		return nil, translateAuthError(err)
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", profile.ID).Info("user registered")

	return &Session{Token: token, Profile: profile}, nil
}

// ResetPassword starts a password reset. The response is identical whether or
// not the email exists, so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ResetPassword(ctx context.Context, email string) {
	email = normalizeEmail(email)
	if email == "" {
		return
	}

	if err := s.backend.ResetPassword(ctx, email); err != nil {
		// Swallowed on purpose: the caller always gets the generic response.
		s.logger.WithError(err).Warn("password reset failed")
	}
}

// GetSession validates a token and resolves the profile behind it
func (s *AuthService) GetSession(ctx context.Context, token string) (*models.Profile, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	profile, err := s.backend.ResolveSession(ctx, claims)
	if err != nil {
		return nil, translateAuthError(err)
	}

	if profile.Estado == types.AccountSuspended {
		return nil, &types.ServiceError{Code: "ACCOUNT_SUSPENDED", Message: "Tu cuenta está suspendida. Contactanos por Instagram."}
	}

	return profile, nil
}

// UpdateProfile updates the self-service profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*models.Profile, error) {
	profile, err := s.backend.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, translateAuthError(err)
	}
	return profile, nil
}

// Logout drops any server-side session state for the user. The token itself
// stays valid until expiry; clients discard it.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.backend.Logout(ctx, userID)
}

func (s *AuthService) issueToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:  profile.Email,
		Nombre: profile.Nombre,
		Rol:    string(profile.Rol),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", &types.ServiceError{Code: "INTERNAL_ERROR", Message: "No se pudo crear la sesión"}
	}

	return token, nil
}

func (s *AuthService) parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, &types.ServiceError{Code: "UNAUTHORIZED", Message: "Sesión inválida o expirada"}
	}

	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// translateAuthError maps internal error codes to the Spanish user-facing
// messages the frontend shows verbatim.
func translateAuthError(err error) error {
	svcErr, ok := err.(*types.ServiceError)
	if !ok {
		return err
	}

	switch svcErr.Code {
	case "INVALID_CREDENTIALS":
		return &types.ServiceError{Code: svcErr.Code, Message: "Email o contraseña incorrectos"}
	case "USER_NOT_FOUND":
		return &types.ServiceError{Code: "INVALID_CREDENTIALS", Message: "Email o contraseña incorrectos"}
	case "DUPLICATE_EMAIL":
		return &types.ServiceError{Code: svcErr.Code, Message: "Ya existe una cuenta con ese email"}
	case "ACCOUNT_SUSPENDED":
		return &types.ServiceError{Code: svcErr.Code, Message: "Tu cuenta está suspendida. Contactanos por Instagram."}
	case "DEMO_MODE":
		return svcErr
	default:
		return svcErr
	}
}
