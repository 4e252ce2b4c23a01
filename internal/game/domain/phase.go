package domain

// Phase describes where a session is in the show lifecycle.
type Phase int

const (
	// PhaseUnspecified represents an invalid phase value.
	PhaseUnspecified Phase = iota
	// PhaseIntro covers the banter between rounds, before a scenario is dealt.
	PhaseIntro
	// PhaseAwaitingImprov means a scenario is out and the player is performing.
	PhaseAwaitingImprov
	// PhaseReacting is the transient beat where the host reacts to a finished
	// performance. It resolves within the same command and is never a resting
	// state.
	PhaseReacting
	// PhaseDone marks a show that finished or was stopped early.
	PhaseDone
)

// String returns the snake_case label used in logs and snapshots.
func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseAwaitingImprov:
		return "awaiting_improv"
	case PhaseReacting:
		return "reacting"
	case PhaseDone:
		return "done"
	default:
		return "unspecified"
	}
}
