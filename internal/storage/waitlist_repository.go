package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/academy-backend/internal/models"
	"github.com/google/uuid"
)

// WaitlistRepository handles waitlist signup persistence
type WaitlistRepository struct {
	db *PostgresDB
}

// NewWaitlistRepository creates a new waitlist repository
func NewWaitlistRepository(db *PostgresDB) *WaitlistRepository {
	return &WaitlistRepository{db: db}
}

// Create records a waitlist signup. Signing up an email that is already on
// the list is not an error; the entry keeps its original position.
func (r *WaitlistRepository) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	query := `
		INSERT INTO waitlist (id, nombre, email, producto, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		entry.ID,
		entry.Nombre,
		entry.Email,
		entry.Producto,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	return nil
}

// Count returns the total number of waitlist entries
func (r *WaitlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM waitlist`

	err := r.db.Pool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	return count, nil
}
