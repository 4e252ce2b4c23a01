package domain

// OutcomeKind classifies what a command did with the session state.
type OutcomeKind int

const (
	// OutcomeUnspecified represents an invalid outcome kind.
	OutcomeUnspecified OutcomeKind = iota
	// OutcomeSuccess means the command took effect and the status carries
	// guidance for the next beat of the show.
	OutcomeSuccess
	// OutcomeNoop means the command changed nothing and the status explains
	// what to do instead.
	OutcomeNoop
)

// String returns the wire label for the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "SUCCESS"
	case OutcomeNoop:
		return "NOOP"
	default:
		return "UNSPECIFIED"
	}
}

// Outcome is what every session command reports back. Commands never return
// errors and never panic on misuse; the status text is always safe to hand to
// the dialogue engine as-is.
type Outcome struct {
	Kind   OutcomeKind
	Status string
}

// Success builds a success outcome with the given status text.
func Success(status string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Status: status}
}

// Noop builds a no-op outcome with the given status text.
func Noop(status string) Outcome {
	return Outcome{Kind: OutcomeNoop, Status: status}
}
