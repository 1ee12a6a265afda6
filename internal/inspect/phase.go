package inspect

// Phase is the section of the transcript the inspector is currently in.
type Phase int

const (
	// PhaseNone is the state before the first theorem unit.
	PhaseNone Phase = iota
	PhaseVerifying
	PhaseFailed
	PhaseWitness
	PhaseFormalize
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseVerifying:
		return "verifying"
	case PhaseFailed:
		return "failed"
	case PhaseWitness:
		return "witness"
	case PhaseFormalize:
		return "formalize"
	default:
		return "unknown"
	}
}

// Transition returns the phase entered after a line of kind k is seen in
// phase p. Only the four section markers change the phase.
func Transition(p Phase, k LineKind) Phase {
	switch k {
	case KindVerifying:
		return PhaseVerifying
	case KindFailure:
		return PhaseFailed
	case KindWitnessHeader:
		return PhaseWitness
	case KindFormalizationHeader:
		return PhaseFormalize
	default:
		return p
	}
}
