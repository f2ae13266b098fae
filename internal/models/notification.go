package models

import (
	"time"

	"github.com/academy-backend/internal/types"
)

// Notification represents a dashboard notification for a user
type Notification struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"userId" db:"user_id"`
	Titulo    string                 `json:"titulo" db:"titulo"`
	Mensaje   string                 `json:"mensaje" db:"mensaje"`
	Tipo      types.NotificationType `json:"tipo" db:"tipo"`
	Leida     bool                   `json:"leida" db:"leida"`
	CreatedAt time.Time              `json:"createdAt" db:"created_at"`
}
