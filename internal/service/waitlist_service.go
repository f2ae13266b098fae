package service

import (
	"context"
	"strings"

	"github.com/academy-backend/internal/email"
	"github.com/academy-backend/internal/errors"
	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
)

const (
	waitlistMaxNombre = 100
	waitlistMaxEmail  = 200
	waitlistProducto  = "fase-2"
)

// waitlistStore persists waitlist signups
type waitlistStore interface {
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	Count(ctx context.Context) (int64, error)
}

// WaitlistService handles phase-2 waitlist signups
type WaitlistService struct {
	store     waitlistStore
	templates *email.Templates
	sender    emailSender
	logger    *logging.Logger
}

// NewWaitlistService creates a new waitlist service
func NewWaitlistService(store waitlistStore, templates *email.Templates, sender emailSender, logger *logging.Logger) *WaitlistService {
	return &WaitlistService{
		store:     store,
		templates: templates,
		sender:    sender,
		logger:    logger,
	}
}

// Signup validates and records a waitlist entry. Duplicate emails succeed
// silently; the confirmation email is best-effort.
func (s *WaitlistService) Signup(ctx context.Context, nombre, emailAddr string) error {
	nombre = truncate(strings.TrimSpace(nombre), waitlistMaxNombre)
	emailAddr = truncate(strings.ToLower(strings.TrimSpace(emailAddr)), waitlistMaxEmail)

	if nombre == "" || emailAddr == "" {
		return errors.NewValidationError("Nombre y email son obligatorios")
	}
	if !strings.Contains(emailAddr, "@") {
		return errors.NewValidationError("Email no válido")
	}

	entry := &models.WaitlistEntry{
		Nombre:   nombre,
		Email:    emailAddr,
		Producto: waitlistProducto,
	}
	if err := s.store.Create(ctx, entry); err != nil {
		return err
	}

	fields := map[string]interface{}{"email": emailAddr}
	if total, err := s.store.Count(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to count waitlist entries")
	} else {
		fields["total"] = total
	}
	s.logger.WithFields(fields).Info("waitlist signup recorded")

	if s.sender != nil && s.templates != nil {
		msg := s.templates.WaitlistConfirmation(nombre)
		if _, err := s.sender.Send(ctx, emailAddr, msg.Subject, msg.HTML); err != nil {
			s.logger.WithError(err).Warn("failed to send waitlist confirmation email")
		}
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
