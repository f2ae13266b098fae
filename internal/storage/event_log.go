package storage

import (
	"context"
	"time"

	"github.com/academy-backend/internal/types"
)

// WebhookEvent is one inbound webhook delivery and its terminal outcome.
// Events are append-only; the log exists for payment support investigations.
type WebhookEvent struct {
	Provider          types.Provider
	EventType         string
	ProviderPaymentID string
	Outcome           types.WebhookOutcome
	Detail            string
	ReceivedAt        time.Time
}

// EventLogRepository appends webhook deliveries to ClickHouse. A nil
// repository disables logging, so callers never need to branch on config.
type EventLogRepository struct {
	db *ClickHouseDB
}

// NewEventLogRepository creates a new event log repository
func NewEventLogRepository(db *ClickHouseDB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// Append records one webhook delivery outcome
func (r *EventLogRepository) Append(ctx context.Context, event *WebhookEvent) error {
	if r == nil || r.db == nil {
		return nil
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}

	query := `
		INSERT INTO webhook_events (provider, event_type, provider_payment_id, outcome, detail, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	return r.db.Exec(ctx, query,
		string(event.Provider),
		event.EventType,
		event.ProviderPaymentID,
		string(event.Outcome),
		event.Detail,
		event.ReceivedAt,
	)
}

// EnsureSchema creates the webhook_events table if it does not exist
func (r *EventLogRepository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}

	query := `
		CREATE TABLE IF NOT EXISTS webhook_events (
			provider String,
			event_type String,
			provider_payment_id String,
			outcome String,
			detail String,
			received_at DateTime64(3)
		) ENGINE = MergeTree()
		ORDER BY (provider, received_at)
	`

	return r.db.Exec(ctx, query)
}
