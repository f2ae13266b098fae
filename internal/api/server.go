// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/academy-backend/internal/logging"
	"github.com/academy-backend/internal/models"
	"github.com/academy-backend/internal/provider"
	"github.com/academy-backend/internal/service"
	"github.com/academy-backend/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// AuthServiceInterface defines the session and profile operations
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Register(ctx context.Context, nombre, email, password string) (*service.Session, error)
	ResetPassword(ctx context.Context, email string)
	GetSession(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update *models.ProfileUpdate) (*models.Profile, error)
	Logout(ctx context.Context, userID string) error
}

// CheckoutServiceInterface defines the payment initiation operations
type CheckoutServiceInterface interface {
	CreateStripeCheckout(ctx context.Context, req *service.CheckoutRequest) (*service.StripeCheckoutResult, error)
	CreateStripeIntent(ctx context.Context, req *service.CheckoutRequest) (*service.StripeIntentResult, error)
	CreateMercadoPagoCheckout(ctx context.Context, req *service.CheckoutRequest) (*service.MercadoPagoCheckoutResult, error)
	ProcessMercadoPagoCard(ctx context.Context, req *service.ProcessCardRequest) (*service.ProcessCardResult, error)
}

// ReconcileServiceInterface defines the webhook processing operations
type ReconcileServiceInterface interface {
	HandleStripeEvent(ctx context.Context, payload []byte, signatureHeader string) (types.WebhookOutcome, error)
	HandleMercadoPagoEvent(ctx context.Context, query url.Values, body []byte) types.WebhookOutcome
}

// DashboardServiceInterface defines the authenticated dashboard operations
type DashboardServiceInterface interface {
	GetProgress(ctx context.Context, userID string) ([]*models.ProgressRow, error)
	CompleteModule(ctx context.Context, userID, modulo string) error
	ListPayments(ctx context.Context, userID string) ([]*models.Payment, error)
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)
	SetNotificationRead(ctx context.Context, id, userID string, leida bool) error
	ListUsers(ctx context.Context, limit, offset int) (*service.UserList, error)
	SetAccountStatus(ctx context.Context, userID string, estado types.AccountStatus) error
	CreateNotification(ctx context.Context, userID, titulo, mensaje string, tipo types.NotificationType) error
}

// WaitlistServiceInterface defines the waitlist signup operation
type WaitlistServiceInterface interface {
	Signup(ctx context.Context, nombre, email string) error
}

// RateServiceInterface defines the exchange-rate feed
type RateServiceInterface interface {
	GetDolarBlue(ctx context.Context) (*provider.ExchangeRate, error)
}

// PaymentKeys are the publishable halves of the provider credentials
type PaymentKeys struct {
	StripePublishableKey string
	MercadoPagoPublicKey string
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server
	auth       AuthServiceInterface
	checkout   CheckoutServiceInterface
	reconcile  ReconcileServiceInterface
	dashboard  DashboardServiceInterface
	waitlist   WaitlistServiceInterface
	rates      RateServiceInterface
	keys       PaymentKeys
	config     *ServerConfig
	logger     *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int

	// StripeWebhookConfigured is false when STRIPE_WEBHOOK_SECRET is unset;
	// the webhook endpoint then refuses deliveries instead of accepting
	// unverifiable ones.
	StripeWebhookConfigured bool
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	auth AuthServiceInterface,
	checkout CheckoutServiceInterface,
	reconcile ReconcileServiceInterface,
	dashboard DashboardServiceInterface,
	waitlist WaitlistServiceInterface,
	rates RateServiceInterface,
	keys PaymentKeys,
	logger *logging.Logger,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		auth:      auth,
		checkout:  checkout,
		reconcile: reconcile,
		dashboard: dashboard,
		waitlist:  waitlist,
		rates:     rates,
		keys:      keys,
		config:    config,
		logger:    logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Middleware order matters
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	// CORS sits outside the router so OPTIONS preflights get answered even
	// for routes registered with a single method; mux middleware only runs
	// on matched routes.
	s.handler = LoggingMiddleware(s.logger)(RecoveryMiddleware(s.logger)(CORSMiddleware(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Auth endpoints
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/reset-password", s.handleResetPassword).Methods("POST")
	api.HandleFunc("/auth/logout", s.requireAuth(s.handleLogout)).Methods("POST")
	api.HandleFunc("/auth/session", s.requireAuth(s.handleSession)).Methods("GET")

	// Profile endpoints
	api.HandleFunc("/profile", s.requireAuth(s.handleGetProfile)).Methods("GET")
	api.HandleFunc("/profile", s.requireAuth(s.handleUpdateProfile)).Methods("PUT")

	// Course progress (phase-1 content)
	api.HandleFunc("/progress", s.requirePhase(types.PhaseOne, s.handleGetProgress)).Methods("GET")
	api.HandleFunc("/progress/{modulo}/complete", s.requirePhase(types.PhaseOne, s.handleCompleteModule)).Methods("POST")

	// Payments and notifications
	api.HandleFunc("/payments", s.requireAuth(s.handleListPayments)).Methods("GET")
	api.HandleFunc("/notifications", s.requireAuth(s.handleListNotifications)).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", s.requireAuth(s.handleMarkNotificationRead)).Methods("POST")
	api.HandleFunc("/notifications/{id}/unread", s.requireAuth(s.handleMarkNotificationUnread)).Methods("POST")

	// Admin endpoints
	api.HandleFunc("/admin/users", s.requireAdmin(s.handleListUsers)).Methods("GET")
	api.HandleFunc("/admin/users/{id}/estado", s.requireAdmin(s.handleSetAccountStatus)).Methods("PUT")
	api.HandleFunc("/admin/notifications", s.requireAdmin(s.handleCreateNotification)).Methods("POST")

	// Checkout initiators
	api.HandleFunc("/stripe-create", s.handleStripeCreate).Methods("POST")
	api.HandleFunc("/stripe-create-intent", s.handleStripeCreateIntent).Methods("POST")
	api.HandleFunc("/mercadopago-create", s.handleMercadoPagoCreate).Methods("POST")
	api.HandleFunc("/mercadopago-process", s.handleMercadoPagoProcess).Methods("POST")

	// Webhooks answer every method: providers probe with GET and expect 200
	api.HandleFunc("/stripe-webhook", s.handleStripeWebhook)
	api.HandleFunc("/mercadopago-webhook", s.handleMercadoPagoWebhook)

	// Public endpoints
	api.HandleFunc("/payment-config", s.handlePaymentConfig).Methods("GET")
	api.HandleFunc("/waitlist", s.handleWaitlist).Methods("POST")
	api.HandleFunc("/exchange-rate", s.handleExchangeRate).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "academy-backend",
	})
}

// Handler returns the root handler (used by tests)
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
