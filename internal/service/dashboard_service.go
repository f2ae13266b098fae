package service

import (
	"context"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/types"
)

// progressLister extends progressStore with the read and mutate operations
// the dashboard needs
type progressLister interface {
	progressStore
	ListByUser(ctx context.Context, userID string) ([]*models.ProgressRow, error)
	MarkComplete(ctx context.Context, userID, modulo string) error
}

// paymentLister reads a user's payment history
type paymentLister interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Payment, error)
}

// notificationLister extends notificationStore with reads and read-flag writes
type notificationLister interface {
	notificationStore
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	SetRead(ctx context.Context, id, userID string, leida bool) error
}

// adminProfileStore lists accounts and toggles their status
type adminProfileStore interface {
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	Count(ctx context.Context) (int64, error)
	SetEstado(ctx context.Context, userID string, estado types.AccountStatus) error
}

// DashboardService serves the authenticated dashboard data: progress,
// payments, notifications, and the admin views. In demo mode it answers from
// fixtures and refuses writes.
type DashboardService struct {
	progress      progressLister
	payments      paymentLister
	notifications notificationLister
	profiles      adminProfileStore
	demoMode      bool
	logger        *logging.Logger
}

// NewDashboardService creates a store-backed dashboard service
func NewDashboardService(
	progress progressLister,
	payments paymentLister,
	notifications notificationLister,
	profiles adminProfileStore,
	logger *logging.Logger,
) *DashboardService {
	return &DashboardService{
		progress:      progress,
		payments:      payments,
		notifications: notifications,
		profiles:      profiles,
		logger:        logger,
	}
}

// NewDemoDashboardService creates a dashboard service that serves fixtures
func NewDemoDashboardService(logger *logging.Logger) *DashboardService {
	return &DashboardService{demoMode: true, logger: logger}
}

func demoModeError() error {
	return &types.ServiceError{Code: "DEMO_MODE", Message: demoUnavailable}
}

// GetProgress lists the user's module progress
func (s *DashboardService) GetProgress(ctx context.Context, userID string) ([]*models.ProgressRow, error) {
	if s.demoMode {
		rows := make([]*models.ProgressRow, 0, len(types.CourseModules))
		for i, modulo := range types.CourseModules {
			rows = append(rows, &models.ProgressRow{
				UserID:     userID,
				Modulo:     modulo,
				Completado: i == 0,
			})
		}
		return rows, nil
	}
	return s.progress.ListByUser(ctx, userID)
}

// CompleteModule marks a course module done for the user
func (s *DashboardService) CompleteModule(ctx context.Context, userID, modulo string) error {
	if s.demoMode {
		return demoModeError()
	}

	known := false
	for _, m := range types.CourseModules {
		if m == modulo {
			known = true
			break
		}
	}
	if !known {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "Módulo desconocido"}
	}

	return s.progress.MarkComplete(ctx, userID, modulo)
}

// ListPayments lists the user's own payment history
func (s *DashboardService) ListPayments(ctx context.Context, userID string) ([]*models.Payment, error) {
	if s.demoMode {
		return []*models.Payment{}, nil
	}
	return s.payments.ListByUser(ctx, userID)
}

// ListNotifications lists the user's recent notifications
func (s *DashboardService) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	if s.demoMode {
		return []*models.Notification{{
			ID:      "demo-notification",
			UserID:  userID,
			Titulo:  "Bienvenido al modo demo",
			Mensaje: "Estás navegando una cuenta de demostración. Los cambios no se guardan.",
			Tipo:    types.NotificationInfo,
		}}, nil
	}
	return s.notifications.ListByUser(ctx, userID, 50)
}

// SetNotificationRead flips the read flag on one of the user's notifications
func (s *DashboardService) SetNotificationRead(ctx context.Context, id, userID string, leida bool) error {
	if s.demoMode {
		return demoModeError()
	}
	return s.notifications.SetRead(ctx, id, userID, leida)
}

// UserList is one page of accounts for the admin view
type UserList struct {
	Users []*models.Profile `json:"users"`
	Total int64             `json:"total"`
}

// ListUsers pages through all accounts (admin)
func (s *DashboardService) ListUsers(ctx context.Context, limit, offset int) (*UserList, error) {
	if s.demoMode {
		return nil, demoModeError()
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.profiles.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &UserList{Users: users, Total: total}, nil
}

// SetAccountStatus suspends or reactivates an account (admin)
func (s *DashboardService) SetAccountStatus(ctx context.Context, userID string, estado types.AccountStatus) error {
	if s.demoMode {
		return demoModeError()
	}
	if estado != types.AccountActive && estado != types.AccountSuspended {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "Estado no válido"}
	}

	if err := s.profiles.SetEstado(ctx, userID, estado); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"estado":  string(estado),
	}).Info("account status changed")

	return nil
}

// CreateNotification pushes a dashboard notification to a user (admin)
func (s *DashboardService) CreateNotification(ctx context.Context, userID, titulo, mensaje string, tipo types.NotificationType) error {
	if s.demoMode {
		return demoModeError()
	}
	if userID == "" || titulo == "" || mensaje == "" {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "userId, titulo y mensaje son obligatorios"}
	}
	if tipo == "" {
		tipo = types.NotificationInfo
	}

	return s.notifications.Create(ctx, &models.Notification{
		UserID:  userID,
		Titulo:  titulo,
		Mensaje: mensaje,
		Tipo:    tipo,
	})
}
