package models

import (
	"time"

	"github.com/academy-backend/internal/types"
)

// Payment represents a payment record as reported by a provider
type Payment struct {
	ID                string                 `json:"id" db:"id"`
	UserID            string                 `json:"userId" db:"user_id"`
	Monto             float64                `json:"monto" db:"monto"`
	Moneda            string                 `json:"moneda" db:"moneda"`
	Metodo            string                 `json:"metodo" db:"metodo"`
	Concepto          string                 `json:"concepto" db:"concepto"`
	Estado            types.PaymentStatus    `json:"estado" db:"estado"`
	Producto          types.ProductID        `json:"producto" db:"producto"`
	Provider          types.Provider         `json:"provider" db:"provider"`
	ProviderPaymentID string                 `json:"providerPaymentId" db:"provider_payment_id"`
	ProviderStatus    string                 `json:"providerStatus" db:"provider_status"`
	Metadata          map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt         time.Time              `json:"createdAt" db:"created_at"`
}
