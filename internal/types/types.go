// Package types provides common type definitions for the academy backend.
package types

// Phase represents a course tier gating module access
type Phase string

const (
	// PhaseNone represents a user with no course access
	PhaseNone Phase = "ninguna"
	// PhaseOne represents access to the first course tier
	PhaseOne Phase = "fase-1"
	// PhaseTwo represents access to the second course tier
	PhaseTwo Phase = "fase-2"
	// PhaseBoth represents access to both course tiers
	PhaseBoth Phase = "ambas"
)

// UnionPhase returns the monotonic union of the current phase and a newly
// granted phase. Already-entitled phases are never downgraded.
func UnionPhase(current, granted Phase) Phase {
	one := current == PhaseOne || current == PhaseBoth || granted == PhaseOne || granted == PhaseBoth
	two := current == PhaseTwo || current == PhaseBoth || granted == PhaseTwo || granted == PhaseBoth

	switch {
	case one && two:
		return PhaseBoth
	case one:
		return PhaseOne
	case two:
		return PhaseTwo
	default:
		return PhaseNone
	}
}

// Role represents a user's role
type Role string

const (
	// RoleStudent represents a regular enrolled user
	RoleStudent Role = "estudiante"
	// RoleAdmin represents an administrator
	RoleAdmin Role = "admin"
)

// AccountStatus represents whether an account may be used
type AccountStatus string

const (
	// AccountActive represents an active account
	AccountActive AccountStatus = "activo"
	// AccountSuspended represents a suspended account
	AccountSuspended AccountStatus = "suspendido"
)

// PaymentStatus represents the internal state of a payment record
type PaymentStatus string

const (
	// PaymentCompleted represents a confirmed, access-granting payment
	PaymentCompleted PaymentStatus = "completado"
	// PaymentPending represents a payment not yet confirmed
	PaymentPending PaymentStatus = "pendiente"
	// PaymentRejected represents a rejected, cancelled or reversed payment
	PaymentRejected PaymentStatus = "rechazado"
)

// ProductID identifies a purchasable product
type ProductID string

const (
	// ProductFase1 is the phase-1 course product
	ProductFase1 ProductID = "fase1"
	// ProductBot is the trading bot subscription product
	ProductBot ProductID = "bot"
)

// Provider identifies a payment provider
type Provider string

const (
	// ProviderStripe is the Stripe payment provider
	ProviderStripe Provider = "stripe"
	// ProviderMercadoPago is the MercadoPago payment provider
	ProviderMercadoPago Provider = "mercadopago"
)

// WebhookOutcome represents the terminal state of an inbound webhook delivery
type WebhookOutcome string

const (
	// OutcomeIgnored means the event type was not a payment event
	OutcomeIgnored WebhookOutcome = "ignored"
	// OutcomeRejected means the delivery failed authenticity checks
	OutcomeRejected WebhookOutcome = "rejected"
	// OutcomeReconciled means the payment was translated into internal state
	OutcomeReconciled WebhookOutcome = "reconciled"
)

// NotificationType represents the display style of a dashboard notification
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// CourseModules lists the known course modules, in curriculum order. One
// progress row per module is created when course access is granted.
var CourseModules = []string{
	"preparacion-grafico",
	"flexzone",
	"relleno-zona",
	"glosario",
	"consejos",
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
