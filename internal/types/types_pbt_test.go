package types

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genPhase() gopter.Gen {
	return gen.OneConstOf(PhaseNone, PhaseOne, PhaseTwo, PhaseBoth)
}

// Property-based checks over the phase lattice
func TestUnionPhaseProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("union is commutative", prop.ForAll(
		func(a, b Phase) bool {
			return UnionPhase(a, b) == UnionPhase(b, a)
		},
		genPhase(),
		genPhase(),
	))

	properties.Property("union is idempotent", prop.ForAll(
		func(a, b Phase) bool {
			u := UnionPhase(a, b)
			return UnionPhase(u, b) == u
		},
		genPhase(),
		genPhase(),
	))

	properties.Property("ambas absorbs everything", prop.ForAll(
		func(a Phase) bool {
			return UnionPhase(PhaseBoth, a) == PhaseBoth
		},
		genPhase(),
	))

	properties.Property("ninguna is the identity", prop.ForAll(
		func(a Phase) bool {
			return UnionPhase(a, PhaseNone) == a
		},
		genPhase(),
	))

	properties.TestingRun(t)
}
