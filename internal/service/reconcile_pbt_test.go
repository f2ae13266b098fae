package service

import (
	"testing"

	"github.com/academy-backend/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Both provider status tables must be total: any string, including garbage
// and statuses the providers invent later, maps to a valid internal state,
// and anything unknown stays pendiente.
func TestStatusTablesAreTotal(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	isValid := func(s types.PaymentStatus) bool {
		return s == types.PaymentCompleted || s == types.PaymentPending || s == types.PaymentRejected
	}

	properties.Property("stripe table always yields a valid state", prop.ForAll(
		func(status string) bool {
			return isValid(StripeStatus(status))
		},
		gen.AnyString(),
	))

	properties.Property("mercadopago table always yields a valid state", prop.ForAll(
		func(status string) bool {
			return isValid(MercadoPagoStatus(status))
		},
		gen.AnyString(),
	))

	knownMercadoPago := map[string]bool{
		"approved": true, "pending": true, "authorized": true, "in_process": true,
		"in_mediation": true, "rejected": true, "cancelled": true, "refunded": true,
		"charged_back": true,
	}
	properties.Property("unknown mercadopago statuses default to pendiente", prop.ForAll(
		func(status string) bool {
			if knownMercadoPago[status] {
				return true
			}
			return MercadoPagoStatus(status) == types.PaymentPending
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
