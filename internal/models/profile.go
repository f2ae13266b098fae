// Package models provides data models for the academy backend.
package models

import (
	"time"

	"github.com/academy-backend/internal/types"
)

// Profile represents a user account and its entitlements
type Profile struct {
	ID              string              `json:"id" db:"id"`
	Email           string              `json:"email" db:"email"`
	Nombre          string              `json:"nombre" db:"nombre"`
	Rol             types.Role          `json:"rol" db:"rol"`
	Fase            types.Phase         `json:"fase" db:"fase"`
	Estado          types.AccountStatus `json:"estado" db:"estado"`
	BotActivo       bool                `json:"botActivo" db:"bot_activo"`
	BotLicencia     *string             `json:"botLicencia,omitempty" db:"bot_licencia"`
	ComunidadAcceso bool                `json:"comunidadAcceso" db:"comunidad_acceso"`
	Telefono        *string             `json:"telefono,omitempty" db:"telefono"`
	Pais            *string             `json:"pais,omitempty" db:"pais"`
	PasswordHash    string              `json:"-" db:"password_hash"`
	CreatedAt       time.Time           `json:"createdAt" db:"created_at"`
	LastAccessAt    *time.Time          `json:"lastAccessAt,omitempty" db:"last_access_at"`
}

// ProfileUpdate carries the self-service fields a user may change
type ProfileUpdate struct {
	Nombre   *string `json:"nombre,omitempty"`
	Telefono *string `json:"telefono,omitempty"`
	Pais     *string `json:"pais,omitempty"`
}
