package service

import (
	"context"

	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
)

const demoUnavailable = "No disponible en modo demo"

// demoAccount pairs hard-coded credentials with a fixed profile
type demoAccount struct {
	password string
	profile  models.Profile
}

// DemoBackend serves two fixed accounts with no persistence. Anything that
// would write state returns the same unavailable message.
type DemoBackend struct {
	accounts map[string]demoAccount
}

// NewDemoBackend creates the demo auth backend
func NewDemoBackend() *DemoBackend {
	return &DemoBackend{
		accounts: map[string]demoAccount{
			"demo@orbita.app": {
				password: "demo1234",
				profile: models.Profile{
					ID:              "demo-user",
					Email:           "demo@orbita.app",
					Nombre:          "Demo",
					Rol:             types.RoleStudent,
					Fase:            types.PhaseOne,
					Estado:          types.AccountActive,
					ComunidadAcceso: true,
				},
			},
			"admin@orbita.app": {
				password: "admin1234",
				profile: models.Profile{
					ID:              "demo-admin",
					Email:           "admin@orbita.app",
					Nombre:          "Admin",
					Rol:             types.RoleAdmin,
					Fase:            types.PhaseBoth,
					Estado:          types.AccountActive,
					BotActivo:       true,
					ComunidadAcceso: true,
				},
			},
		},
	}
}

// Login checks against the hard-coded credential pairs
func (b *DemoBackend) Login(_ context.Context, email, password string) (*models.Profile, error) {
	account, ok := b.accounts[email]
	if !ok || account.password != password {
		return nil, &types.ServiceError{Code: "INVALID_CREDENTIALS", Message: "invalid credentials"}
	}

	profile := account.profile
	return &profile, nil
}

// Register is unavailable in demo mode
func (b *DemoBackend) Register(_ context.Context, _, _, _ string) (*models.Profile, error) {
	return nil, &types.ServiceError{Code: "DEMO_MODE", Message: demoUnavailable}
}

// ResetPassword is unavailable in demo mode
func (b *DemoBackend) ResetPassword(_ context.Context, _ string) error {
	return &types.ServiceError{Code: "DEMO_MODE", Message: demoUnavailable}
}

// ResolveSession returns the fixed profile for the token subject
func (b *DemoBackend) ResolveSession(_ context.Context, claims *Claims) (*models.Profile, error) {
	for _, account := range b.accounts {
		if account.profile.ID == claims.Subject {
			profile := account.profile
			return &profile, nil
		}
	}
	return nil, &types.ServiceError{Code: "UNAUTHORIZED", Message: "Sesión inválida o expirada"}
}

// UpdateProfile is unavailable in demo mode
func (b *DemoBackend) UpdateProfile(_ context.Context, _ string, _ *models.ProfileUpdate) (*models.Profile, error) {
	return nil, &types.ServiceError{Code: "DEMO_MODE", Message: demoUnavailable}
}

// Logout is a no-op in demo mode
func (b *DemoBackend) Logout(_ context.Context, _ string) error {
	return nil
}

var _ AuthBackend = (*DemoBackend)(nil)
