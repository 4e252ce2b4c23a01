// Package domain defines the state model for one Improv Battle session.
//
// The model is deliberately small:
//
// # State
//
// A State tracks a single voice session from the opening banter to the final
// summary. It counts dealt rounds against a round target, remembers the
// performer's stage name, and records whether the show can still accept
// rounds.
//
// # Round
//
// A Round pairs the scenario dealt to the player with the host's reaction to
// the performance. The scenario never changes once dealt; the reaction is
// attached exactly once, when the round finishes.
//
// # Outcome
//
// Commands on the state never fail. Each one reports an Outcome instead: a
// status line for the dialogue engine to speak from, tagged with whether the
// command changed anything. Misuse (finishing a round that never started,
// dealing into a finished show) yields a no-op Outcome whose status explains
// what to do instead.
package domain
