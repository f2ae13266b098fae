package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
	"github.com/google/uuid"
)

// NotificationRepository handles dashboard notification persistence
type NotificationRepository struct {
	db *PostgresDB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *PostgresDB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	query := `
		INSERT INTO notifications (id, user_id, titulo, mensaje, tipo, leida, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Titulo,
		n.Mensaje,
		n.Tipo,
		n.Leida,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, titulo, mensaje, tipo, leida, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Titulo, &n.Mensaje, &n.Tipo, &n.Leida, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

// SetRead updates the read flag on a notification. The user scope prevents
// marking another user's notifications.
func (r *NotificationRepository) SetRead(ctx context.Context, id, userID string, leida bool) error {
	query := `UPDATE notifications SET leida = $3 WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool().Exec(ctx, query, id, userID, leida)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.ServiceError{Code: "NOTIFICATION_NOT_FOUND", Message: fmt.Sprintf("notification not found: %s", id)}
	}

	return nil
}
