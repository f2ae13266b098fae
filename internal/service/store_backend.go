package service

import (
	"context"
	"strings"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// profileStore is the subset of the profile repository the auth backend needs
type profileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	UpdateSelfService(ctx context.Context, userID string, update *models.ProfileUpdate) error
	TouchLastAccess(ctx context.Context, userID string) error
}

// sessionStore caches profile snapshots between requests
type sessionStore interface {
	Put(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Invalidate(ctx context.Context, userID string) error
}

// StoreBackend is the production auth backend: credentials in Postgres,
// profile snapshots cached in Redis.
type StoreBackend struct {
	profiles profileStore
	sessions sessionStore
	logger   *logging.Logger
}

// NewStoreBackend creates the Postgres/Redis-backed auth backend
func NewStoreBackend(profiles profileStore, sessions sessionStore, logger *logging.Logger) *StoreBackend {
	return &StoreBackend{
		profiles: profiles,
		sessions: sessions,
		logger:   logger,
	}
}

// Login verifies a password against the stored bcrypt hash
func (b *StoreBackend) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := b.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, &types.ServiceError{Code: "INVALID_CREDENTIALS", Message: "invalid credentials"}
	}

	if err := b.profiles.TouchLastAccess(ctx, profile.ID); err != nil {
		b.logger.WithError(err).Warn("failed to record last access")
	}
	b.cacheProfile(ctx, profile)

	return profile, nil
}

// Register creates a profile with a bcrypt password hash
func (b *StoreBackend) Register(ctx context.Context, nombre, email, password string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &types.ServiceError{Code: "INTERNAL_ERROR", Message: "failed to hash password"}
	}

	profile := &models.Profile{
		Email:        email,
		Nombre:       nombre,
		PasswordHash: string(hash),
	}

	if err := b.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	b.cacheProfile(ctx, profile)

	return profile, nil
}

// ResetPassword looks up the account so a reset email could be dispatched.
// Delivery of the reset link is handled by the identity layer; unknown emails
// are not an error.
func (b *StoreBackend) ResetPassword(ctx context.Context, email string) error {
	if _, err := b.profiles.GetByEmail(ctx, email); err != nil {
		if svcErr, ok := err.(*types.ServiceError); ok && svcErr.Code == "USER_NOT_FOUND" {
			return nil
		}
		return err
	}
	return nil
}

// ResolveSession turns token claims into a profile. The chain is live row →
// cached snapshot → claims. A transient database failure must never log the
// user out, so each step falls through to the next.
func (b *StoreBackend) ResolveSession(ctx context.Context, claims *Claims) (*models.Profile, error) {
	userID := claims.Subject

	profile, err := b.profiles.GetByID(ctx, userID)
	if err == nil {
		b.cacheProfile(ctx, profile)
		return profile, nil
	}
	if svcErr, ok := err.(*types.ServiceError); ok && svcErr.Code == "USER_NOT_FOUND" {
		return nil, err
	}
	b.logger.WithError(err).Warn("live profile fetch failed, trying cache")

	cached, cacheErr := b.sessions.Get(ctx, userID)
	if cacheErr == nil && cached != nil {
		return cached, nil
	}
	if cacheErr != nil {
		b.logger.WithError(cacheErr).Warn("session cache fetch failed, falling back to claims")
	}

	return profileFromClaims(claims), nil
}

// UpdateProfile applies the self-service fields and returns the fresh profile
func (b *StoreBackend) UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*models.Profile, error) {
	if err := b.profiles.UpdateSelfService(ctx, userID, update); err != nil {
		return nil, err
	}

	profile, err := b.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	b.cacheProfile(ctx, profile)

	return profile, nil
}

// Logout drops the cached profile snapshot
func (b *StoreBackend) Logout(ctx context.Context, userID string) error {
	return b.sessions.Invalidate(ctx, userID)
}

func (b *StoreBackend) cacheProfile(ctx context.Context, profile *models.Profile) {
	if err := b.sessions.Put(ctx, profile); err != nil {
		b.logger.WithError(err).Warn("failed to cache profile snapshot")
	}
}

// profileFromClaims synthesizes a minimal profile from token claims. Used
// only when both the database and the cache are unavailable; role and phase
// may be stale.
func profileFromClaims(claims *Claims) *models.Profile {
	nombre := claims.Nombre
	if nombre == "" {
		nombre = nameFromEmail(claims.Email)
	}
	rol := types.Role(claims.Rol)
	if rol == "" {
		rol = types.RoleStudent
	}

	return &models.Profile{
		ID:     claims.Subject,
		Email:  claims.Email,
		Nombre: nombre,
		Rol:    rol,
		Fase:   types.PhaseNone,
		Estado: types.AccountActive,
	}
}

// nameFromEmail derives a display name from the email local part
func nameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	if local == "" {
		return "Estudiante"
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

var _ AuthBackend = (*StoreBackend)(nil)
