package service

import (
	"context"
	"strings"
	"testing"

	"github.com/academy-backend/internal/email"
	"github.com/academy-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWaitlistStore records entries and simulates the duplicate-as-success
// behavior of the repository
type mockWaitlistStore struct {
	entries  []*models.WaitlistEntry
	seen     map[string]bool
	err      error
	counts   int
	countErr error
}

func newMockWaitlistStore() *mockWaitlistStore {
	return &mockWaitlistStore{seen: make(map[string]bool)}
}

func (m *mockWaitlistStore) Create(_ context.Context, entry *models.WaitlistEntry) error {
	if m.err != nil {
		return m.err
	}
	if m.seen[entry.Email] {
		return nil
	}
	m.seen[entry.Email] = true
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockWaitlistStore) Count(_ context.Context) (int64, error) {
	m.counts++
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.entries)), nil
}

func newWaitlistFixture() (*WaitlistService, *mockWaitlistStore, *mockEmailSender) {
	store := newMockWaitlistStore()
	sender := &mockEmailSender{}
	svc := NewWaitlistService(store, email.NewTemplates("https://example.com"), sender, testLogger())
	return svc, store, sender
}

func TestWaitlistSignup(t *testing.T) {
	svc, store, sender := newWaitlistFixture()

	err := svc.Signup(context.Background(), "  Ana  ", " Ana@Example.COM ")
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, "Ana", entry.Nombre)
	assert.Equal(t, "ana@example.com", entry.Email)
	assert.Equal(t, "fase-2", entry.Producto)
	assert.Equal(t, []string{"ana@example.com"}, sender.sent)
	assert.Equal(t, 1, store.counts, "signup reports the running waitlist size")
}

func TestWaitlistCountFailureStillSucceeds(t *testing.T) {
	svc, store, _ := newWaitlistFixture()
	store.countErr = assert.AnError

	err := svc.Signup(context.Background(), "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, store.entries, 1)
}

func TestWaitlistSignupValidation(t *testing.T) {
	svc, store, _ := newWaitlistFixture()
	ctx := context.Background()

	assert.Error(t, svc.Signup(ctx, "", "ana@example.com"))
	assert.Error(t, svc.Signup(ctx, "Ana", ""))
	assert.Error(t, svc.Signup(ctx, "Ana", "no-arroba"))
	assert.Empty(t, store.entries)
}

func TestWaitlistSignupTruncates(t *testing.T) {
	svc, store, _ := newWaitlistFixture()

	longName := strings.Repeat("a", 300)
	longEmail := strings.Repeat("b", 150) + "@" + strings.Repeat("c", 150) + ".com"

	err := svc.Signup(context.Background(), longName, longEmail)
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	assert.Len(t, store.entries[0].Nombre, 100)
	assert.Len(t, store.entries[0].Email, 200)
}

func TestWaitlistDuplicateIsSuccess(t *testing.T) {
	svc, store, _ := newWaitlistFixture()
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "Ana", "ana@example.com"))
	require.NoError(t, svc.Signup(ctx, "Ana", "ana@example.com"))
	assert.Len(t, store.entries, 1)
}

func TestWaitlistEmailFailureStillSucceeds(t *testing.T) {
	svc, store, sender := newWaitlistFixture()
	sender.err = assert.AnError

	err := svc.Signup(context.Background(), "Ana", "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, store.entries, 1)
}
