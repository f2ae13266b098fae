package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/storage"
	"github.com/academy-backend/internal/types"
)

func testLogger() *logging.Logger {
	logger := logging.NewLogger(logging.LevelError, logging.FormatText)
	logger.SetOutput(io.Discard)
	return logger
}

// mockPaymentStore records every upsert
type mockPaymentStore struct {
	mu       sync.Mutex
	upserts  []*models.Payment
	err      error
}

func (m *mockPaymentStore) Upsert(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, payment)
	return nil
}

// mockProfileStore is an in-memory profile table for grant tests
type mockProfileStore struct {
	mu        sync.Mutex
	profiles  map[string]*models.Profile
	phaseSets int
	botSets   int
}

func newMockProfileStore(profiles ...*models.Profile) *mockProfileStore {
	store := &mockProfileStore{profiles: make(map[string]*models.Profile)}
	for _, p := range profiles {
		store.profiles[p.ID] = p
	}
	return store
}

func (m *mockProfileStore) get(id string) (*models.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, &types.ServiceError{Code: "USER_NOT_FOUND", Message: "user not found: " + id}
	}
	return p, nil
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *mockProfileStore) GetPhase(_ context.Context, userID string) (types.Phase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(userID)
	if err != nil {
		return "", err
	}
	return p.Fase, nil
}

func (m *mockProfileStore) SetPhase(_ context.Context, userID string, fase types.Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(userID)
	if err != nil {
		return err
	}
	p.Fase = fase
	m.phaseSets++
	return nil
}

func (m *mockProfileStore) SetBotActive(_ context.Context, userID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(userID)
	if err != nil {
		return err
	}
	p.BotActivo = active
	m.botSets++
	return nil
}

// mockProgressStore records InitModules calls and simulates the
// insert-if-absent behavior
type mockProgressStore struct {
	mu       sync.Mutex
	rows     map[string]map[string]bool
	initCall int
}

func newMockProgressStore() *mockProgressStore {
	return &mockProgressStore{rows: make(map[string]map[string]bool)}
}

func (m *mockProgressStore) InitModules(_ context.Context, userID string, modules []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCall++
	if m.rows[userID] == nil {
		m.rows[userID] = make(map[string]bool)
	}
	for _, modulo := range modules {
		if _, exists := m.rows[userID][modulo]; !exists {
			m.rows[userID][modulo] = false
		}
	}
	return nil
}

// mockNotificationStore records created notifications
type mockNotificationStore struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (m *mockNotificationStore) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, n)
	return nil
}

// mockEmailSender records sent emails
type mockEmailSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, to, _, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, to)
	return "msg-1", nil
}

// mockEventLog records audit events
type mockEventLog struct {
	mu     sync.Mutex
	events []*storage.WebhookEvent
}

func (m *mockEventLog) Append(_ context.Context, event *storage.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// mockStripeVerifier returns a fixed verification result
type mockStripeVerifier struct {
	err error
}

func (m *mockStripeVerifier) VerifySignature(_ []byte, _ string, _ time.Time) error {
	return m.err
}

// mockMercadoPagoFetcher serves canned payments by id
type mockMercadoPagoFetcher struct {
	payments map[string]*provider.MercadoPagoPayment
	err      error
	fetches  int
}

func (m *mockMercadoPagoFetcher) GetPayment(_ context.Context, paymentID string) (*provider.MercadoPagoPayment, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.payments[paymentID]
	if !ok {
		return nil, &types.ServiceError{Code: "PAYMENT_NOT_FOUND", Message: "payment not found"}
	}
	return p, nil
}
