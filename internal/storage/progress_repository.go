package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
)

// ProgressRepository handles per-module course progress persistence
type ProgressRepository struct {
	db *PostgresDB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *PostgresDB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// InitModules seeds one incomplete progress row per course module for a user.
// Rows that already exist are left untouched, so re-granting access never
// resets completion state.
func (r *ProgressRepository) InitModules(ctx context.Context, userID string, modules []string) error {
	if len(modules) == 0 {
		return nil
	}

	values := make([]string, 0, len(modules))
	args := make([]interface{}, 0, len(modules)+1)
	args = append(args, userID)
	for i, modulo := range modules {
		values = append(values, fmt.Sprintf("($1, $%d, false)", i+2))
		args = append(args, modulo)
	}

	query := `
		INSERT INTO progreso (user_id, modulo, completado)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (user_id, modulo) DO NOTHING
	`

	_, err := r.db.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to init progress modules: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's progress rows in curriculum order
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]*models.ProgressRow, error) {
	query := `
		SELECT user_id, modulo, completado, completed_at
		FROM progreso
		WHERE user_id = $1
		ORDER BY modulo
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var progress []*models.ProgressRow
	for rows.Next() {
		var row models.ProgressRow
		if err := rows.Scan(&row.UserID, &row.Modulo, &row.Completado, &row.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		progress = append(progress, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress: %w", err)
	}

	return progress, nil
}

// MarkComplete marks a module completed for a user. Completing an already
// completed module keeps the original completion timestamp.
func (r *ProgressRepository) MarkComplete(ctx context.Context, userID, modulo string) error {
	query := `
		UPDATE progreso
		SET completado = true,
		    completed_at = COALESCE(completed_at, $3)
		WHERE user_id = $1 AND modulo = $2
	`

	result, err := r.db.Pool().Exec(ctx, query, userID, modulo, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark module complete: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "NOT_FOUND", Message: fmt.Sprintf("no progress row for module %s", modulo)}
	}

	return nil
}
