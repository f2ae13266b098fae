package types

import "testing"

func TestUnionPhase(t *testing.T) {
	tests := []struct {
		name     string
		current  Phase
		granted  Phase
		expected Phase
	}{
		{"none plus fase1", PhaseNone, PhaseOne, PhaseOne},
		{"none plus fase2", PhaseNone, PhaseTwo, PhaseTwo},
		{"fase1 plus fase1", PhaseOne, PhaseOne, PhaseOne},
		{"fase2 plus fase1", PhaseTwo, PhaseOne, PhaseBoth},
		{"fase1 plus fase2", PhaseOne, PhaseTwo, PhaseBoth},
		{"ambas plus fase1", PhaseBoth, PhaseOne, PhaseBoth},
		{"ambas plus fase2", PhaseBoth, PhaseTwo, PhaseBoth},
		{"fase1 plus none", PhaseOne, PhaseNone, PhaseOne},
		{"none plus none", PhaseNone, PhaseNone, PhaseNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnionPhase(tt.current, tt.granted)
			if got != tt.expected {
				t.Errorf("UnionPhase(%s, %s) = %s, expected %s", tt.current, tt.granted, got, tt.expected)
			}
		})
	}
}

// TestUnionPhase_Monotonic verifies an already-entitled phase is never lost
func TestUnionPhase_Monotonic(t *testing.T) {
	phases := []Phase{PhaseNone, PhaseOne, PhaseTwo, PhaseBoth}

	for _, current := range phases {
		for _, granted := range phases {
			result := UnionPhase(current, granted)

			// Re-applying the same grant must not change anything
			if again := UnionPhase(result, granted); again != result {
				t.Errorf("UnionPhase not idempotent: (%s, %s) -> %s -> %s", current, granted, result, again)
			}

			// The union must still entitle everything current entitled
			if UnionPhase(result, current) != result {
				t.Errorf("UnionPhase downgraded %s when granting %s (got %s)", current, granted, result)
			}
		}
	}
}
