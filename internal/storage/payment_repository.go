package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/academy-backend/internal/models"
	"github.com/google/uuid"
)

// PaymentRepository handles payment record persistence
type PaymentRepository struct {
	db *PostgresDB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *PostgresDB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Upsert writes a payment record keyed by (provider, provider_payment_id).
// A repeated delivery for the same provider payment updates the existing row.
// If the upsert fails (e.g. an environment without the uniqueness constraint),
// it falls back to a plain insert so the record is never lost.
func (r *PaymentRepository) Upsert(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.CreatedAt = time.Now()

	metadataJSON, err := marshalMetadata(payment.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pagos (id, user_id, monto, moneda, metodo, concepto, estado,
			producto, provider, provider_payment_id, provider_status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (provider, provider_payment_id) DO UPDATE
		SET estado = EXCLUDED.estado,
		    provider_status = EXCLUDED.provider_status,
		    metadata = EXCLUDED.metadata
	`

	_, err = r.db.Pool().Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Monto,
		payment.Moneda,
		payment.Metodo,
		payment.Concepto,
		payment.Estado,
		payment.Producto,
		payment.Provider,
		payment.ProviderPaymentID,
		payment.ProviderStatus,
		metadataJSON,
		payment.CreatedAt,
	)
	if err != nil {
		// Best-effort idempotency guard: without the unique constraint the
		// ON CONFLICT target does not exist, so retry as a plain insert.
		return r.insert(ctx, payment, metadataJSON)
	}

	return nil
}

func (r *PaymentRepository) insert(ctx context.Context, payment *models.Payment, metadataJSON []byte) error {
	query := `
		INSERT INTO pagos (id, user_id, monto, moneda, metodo, concepto, estado,
			producto, provider, provider_payment_id, provider_status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Monto,
		payment.Moneda,
		payment.Metodo,
		payment.Concepto,
		payment.Estado,
		payment.Producto,
		payment.Provider,
		payment.ProviderPaymentID,
		payment.ProviderStatus,
		metadataJSON,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's payment records, newest first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	query := `
		SELECT id, user_id, monto, moneda, metodo, concepto, estado,
			producto, provider, provider_payment_id, provider_status, metadata, created_at
		FROM pagos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		var metadataJSON []byte

		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Monto,
			&p.Moneda,
			&p.Metodo,
			&p.Concepto,
			&p.Estado,
			&p.Producto,
			&p.Provider,
			&p.ProviderPaymentID,
			&p.ProviderStatus,
			&metadataJSON,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &p.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payment metadata: %w", err)
			}
		}

		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}

	return payments, nil
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment metadata: %w", err)
	}
	return data, nil
}
