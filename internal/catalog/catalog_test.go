package catalog

import (
	"testing"

	"github.com/academy-backend/internal/types"
)

func TestLookup(t *testing.T) {
	fase1, ok := Lookup(types.ProductFase1)
	if !ok {
		t.Fatal("Lookup(fase1) not found")
	}
	if fase1.StripeAmountCents != 1000 {
		t.Errorf("fase1 Stripe amount = %d, want 1000", fase1.StripeAmountCents)
	}
	if fase1.MercadoPagoCurrency != "ARS" {
		t.Errorf("fase1 MercadoPago currency = %s, want ARS", fase1.MercadoPagoCurrency)
	}

	bot, ok := Lookup(types.ProductBot)
	if !ok {
		t.Fatal("Lookup(bot) not found")
	}
	if bot.MercadoPagoUnitPrice != 7500 {
		t.Errorf("bot MercadoPago price = %f, want 7500", bot.MercadoPagoUnitPrice)
	}

	if _, ok := Lookup(types.ProductID("fase3")); ok {
		t.Error("Lookup(fase3) found, want unknown")
	}
}

func TestConcept(t *testing.T) {
	fase1, _ := Lookup(types.ProductFase1)
	if got := fase1.Concept(types.ProviderStripe); got != "Curso Fase 1 (Stripe)" {
		t.Errorf("Concept(stripe) = %q", got)
	}
	if got := fase1.Concept(types.ProviderMercadoPago); got != "Curso Fase 1 (MercadoPago)" {
		t.Errorf("Concept(mercadopago) = %q", got)
	}
}
