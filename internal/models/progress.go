package models

import "time"

// ProgressRow represents per-user completion state for one course module.
// Rows are created insert-if-absent when course access is granted.
type ProgressRow struct {
	UserID      string     `json:"userId" db:"user_id"`
	Modulo      string     `json:"modulo" db:"modulo"`
	Completado  bool       `json:"completado" db:"completado"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}
