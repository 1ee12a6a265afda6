package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	phases := []Phase{PhaseNone, PhaseVerifying, PhaseFailed, PhaseWitness, PhaseFormalize}

	entering := map[LineKind]Phase{
		KindVerifying:           PhaseVerifying,
		KindFailure:             PhaseFailed,
		KindWitnessHeader:       PhaseWitness,
		KindFormalizationHeader: PhaseFormalize,
	}
	staying := []LineKind{
		KindNone, KindHonesty, KindMessage, KindLocation,
		KindProtect, KindCould, KindFrom, KindDefine, KindWould, KindProse,
	}

	for _, p := range phases {
		for k, want := range entering {
			assert.Equal(t, want, Transition(p, k), "%s + %s", p, k)
		}
		for _, k := range staying {
			assert.Equal(t, p, Transition(p, k), "%s + %s", p, k)
		}
	}
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "none", PhaseNone.String())
	assert.Equal(t, "verifying", PhaseVerifying.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "witness", PhaseWitness.String())
	assert.Equal(t, "formalize", PhaseFormalize.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
