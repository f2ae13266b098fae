// Package catalog holds the product table shared by both payment providers.
// Both checkout initiators resolve products here, so pricing and copy cannot
// drift between providers.
package catalog

import "github.com/academy-backend/internal/types"

// Product describes one purchasable SKU with per-provider pricing
type Product struct {
	ID          types.ProductID
	Title       string
	Description string

	// Stripe charges in USD cents
	StripeAmountCents int64
	StripeCurrency    string

	// MercadoPago charges in ARS units
	MercadoPagoUnitPrice float64
	MercadoPagoCurrency  string
}

// Concept returns the payment concept label recorded for a given provider
func (p *Product) Concept(provider types.Provider) string {
	switch provider {
	case types.ProviderStripe:
		if p.ID == types.ProductFase1 {
			return "Curso Fase 1 (Stripe)"
		}
		return "Bot de Trading (Stripe)"
	case types.ProviderMercadoPago:
		if p.ID == types.ProductFase1 {
			return "Curso Fase 1 (MercadoPago)"
		}
		return "Bot de Trading (MercadoPago)"
	}
	return p.Title
}

var products = map[types.ProductID]*Product{
	types.ProductFase1: {
		ID:                   types.ProductFase1,
		Title:                "Curso de Trading — Fase 1",
		Description:          "Acceso completo: 2 sistemas de trading, preparacion del grafico, glosario y consejos",
		StripeAmountCents:    1000,
		StripeCurrency:       "usd",
		MercadoPagoUnitPrice: 9999,
		MercadoPagoCurrency:  "ARS",
	},
	types.ProductBot: {
		ID:                   types.ProductBot,
		Title:                "Bot de Trading — Suscripcion Mensual",
		Description:          "Bot automatizado, opera 24/7",
		StripeAmountCents:    500,
		StripeCurrency:       "usd",
		MercadoPagoUnitPrice: 7500,
		MercadoPagoCurrency:  "ARS",
	},
}

// Lookup returns the product for the given id, or false for unknown ids
func Lookup(id types.ProductID) (*Product, bool) {
	p, ok := products[id]
	return p, ok
}
