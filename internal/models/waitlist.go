package models

import "time"

// WaitlistEntry represents a signup on the phase-2 waitlist. Unique on email;
// a duplicate signup is treated as already registered, not an error.
type WaitlistEntry struct {
	ID        string    `json:"id" db:"id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	Email     string    `json:"email" db:"email"`
	Producto  string    `json:"producto" db:"producto"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
