package domain

import "errors"

// DefaultMaxRounds is the round target used when a show starts without one.
const DefaultMaxRounds = 3

var (
	// ErrMaxRoundsTooLow indicates a round target below one.
	ErrMaxRoundsTooLow = errors.New("max rounds must be at least one")
	// ErrRoundCountExceedsCurrent indicates more dealt rounds than the round counter allows.
	ErrRoundCountExceedsCurrent = errors.New("dealt rounds exceed current round")
	// ErrCurrentExceedsMax indicates the round counter passed the round target.
	ErrCurrentExceedsMax = errors.New("current round exceeds max rounds")
	// ErrSettledRoundWithoutReaction indicates a non-final round missing its reaction.
	ErrSettledRoundWithoutReaction = errors.New("settled round has no reaction")
	// ErrDoneStillActive indicates a done show that was left active.
	ErrDoneStillActive = errors.New("done phase requires an inactive game")
)

// Round records one dealt scenario and the host's reaction to the performance.
type Round struct {
	Scenario     string
	HostReaction string
	Reacted      bool
}

// State is the observable state of one improv session.
type State struct {
	PlayerName   string
	CurrentRound int
	MaxRounds    int
	Phase        Phase
	Rounds       []Round
	GameActive   bool
}

// NewState returns the opening state of a session: intro phase, no rounds
// dealt, default round target, show active.
func NewState() State {
	return State{
		MaxRounds:  DefaultMaxRounds,
		Phase:      PhaseIntro,
		GameActive: true,
	}
}

// Clone returns a deep copy of the state. Mutating the copy never touches the
// original's rounds.
func (s State) Clone() State {
	out := s
	if s.Rounds != nil {
		out.Rounds = make([]Round, len(s.Rounds))
		copy(out.Rounds, s.Rounds)
	}
	return out
}

// Validate reports the first violated state invariant, or nil when the state
// is consistent. Every command leaves the state valid; drift here means a bug
// in the caller, not bad player input.
func (s State) Validate() error {
	if s.MaxRounds < 1 {
		return ErrMaxRoundsTooLow
	}
	if len(s.Rounds) > s.CurrentRound {
		return ErrRoundCountExceedsCurrent
	}
	if s.CurrentRound > s.MaxRounds {
		return ErrCurrentExceedsMax
	}
	for i, round := range s.Rounds {
		if i < len(s.Rounds)-1 && !round.Reacted {
			return ErrSettledRoundWithoutReaction
		}
	}
	if s.Phase == PhaseDone && s.GameActive {
		return ErrDoneStillActive
	}
	return nil
}
