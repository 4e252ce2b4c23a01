// Package service drives one Improv Battle session through its six commands.
package service

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/louisbranch/improv.show/internal/catalog"
	"github.com/louisbranch/improv.show/internal/game/domain"
	"github.com/louisbranch/improv.show/internal/random"
)

// Controller owns the state of exactly one voice session. Commands are total:
// they never fail and never panic on out-of-order calls, reporting a
// domain.Outcome instead. The controller performs no locking; callers issue
// commands one at a time and serialize any overlapping invocations themselves.
type Controller struct {
	state  domain.State
	deck   catalog.Catalog
	rng    *rand.Rand
	logger *log.Logger
}

// Options carries the controller's collaborators. Zero values select the
// built-in deck, a crypto-seeded random source, and a discarded log.
type Options struct {
	Catalog catalog.Catalog
	Rand    *rand.Rand
	Logger  *log.Logger
}

// New returns a controller holding a fresh session state.
func New(opts Options) *Controller {
	if opts.Catalog.Size() == 0 {
		opts.Catalog = catalog.Default()
	}
	if opts.Rand == nil {
		seed, err := random.NewSeed()
		if err != nil {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		state:  domain.NewState(),
		deck:   opts.Catalog,
		rng:    opts.Rand,
		logger: opts.Logger,
	}
}

// RecordPlayerName stores the performer's stage name, trimming whitespace and
// falling back to "Player" when nothing is left. Re-recording overwrites the
// previous name at any point in the show.
func (c *Controller) RecordPlayerName(name string) domain.Outcome {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		cleaned = "Player"
	}
	c.state.PlayerName = cleaned

	c.logger.Printf("player name recorded player=%s", cleaned)
	return domain.Success(fmt.Sprintf("Player name set to %s.", cleaned))
}

// StartGame resets the session to a fresh show: round counter zeroed, rounds
// cleared, intro phase, game active. A positive maxRounds overwrites the round
// target; zero or negative keeps the previous value. The player name survives
// the reset. Callable in any phase, including to restart a finished show.
func (c *Controller) StartGame(maxRounds int) domain.Outcome {
	if maxRounds > 0 {
		c.state.MaxRounds = maxRounds
	}
	c.state.CurrentRound = 0
	c.state.Rounds = nil
	c.state.Phase = domain.PhaseIntro
	c.state.GameActive = true

	c.logger.Printf("game started player=%s max_rounds=%d", c.displayName(), c.state.MaxRounds)
	return domain.Success(fmt.Sprintf(
		"Game initialized with up to %d rounds. You can now fetch the first scenario using next_scenario.",
		c.state.MaxRounds,
	))
}

// NextScenario deals the next round. A stopped show or an exhausted round
// target yields a no-op; the latter also settles the phase to done so the
// show cannot idle in between. Otherwise one scenario is drawn from the deck,
// the round counter advances, and the player is on.
func (c *Controller) NextScenario() domain.Outcome {
	if !c.state.GameActive {
		return domain.Noop("The game is already marked as finished or stopped.")
	}
	if c.state.CurrentRound >= c.state.MaxRounds {
		c.state.Phase = domain.PhaseDone
		c.state.GameActive = false
		return domain.Noop("All rounds are already completed. You should move to the final summary and end the show.")
	}

	scenario := c.deck.Pick(c.rng)
	c.state.CurrentRound++
	c.state.Phase = domain.PhaseAwaitingImprov
	c.state.Rounds = append(c.state.Rounds, domain.Round{Scenario: scenario})

	c.logger.Printf("scenario dealt player=%s round=%d/%d", c.displayName(), c.state.CurrentRound, c.state.MaxRounds)
	return domain.Success(fmt.Sprintf(
		"This is round %d out of %d. Scenario: %s",
		c.state.CurrentRound, c.state.MaxRounds, scenario,
	))
}

// FinishRound attaches the host's reaction to the round in flight. Without a
// dealt round it is a no-op. Otherwise the reaction lands on the last round
// and the show either wraps (round target reached: done phase, game inactive)
// or returns to intro banter for the next deal.
func (c *Controller) FinishRound(reactionSummary string) domain.Outcome {
	if len(c.state.Rounds) == 0 {
		return domain.Noop("There is no active round to finish.")
	}

	// Reacting is transient; it settles to intro or done before returning.
	c.state.Phase = domain.PhaseReacting
	last := &c.state.Rounds[len(c.state.Rounds)-1]
	last.HostReaction = strings.TrimSpace(reactionSummary)
	last.Reacted = true

	c.logger.Printf("round finished player=%s round=%d reaction=%q", c.displayName(), c.state.CurrentRound, last.HostReaction)

	if c.state.CurrentRound >= c.state.MaxRounds {
		c.state.Phase = domain.PhaseDone
		c.state.GameActive = false
		return domain.Success(
			"All rounds are now complete. You should move to the final game summary by calling get_summary and then close the show.",
		)
	}

	c.state.Phase = domain.PhaseIntro
	return domain.Success(
		"Round finished and reaction stored. You can now ask the player if they want the next scenario, and then call next_scenario when ready.",
	)
}

// Summary builds the closing recap: every round in order with its scenario
// and stored reaction, plus a finished note once the show is over. A show
// with no rounds still gets a sendoff line. Pure read; never mutates state.
func (c *Controller) Summary() domain.Outcome {
	name := c.state.PlayerName
	if name == "" {
		name = "the player"
	}

	if len(c.state.Rounds) == 0 {
		return domain.Success(fmt.Sprintf(
			"No rounds were played for %s. You should still thank them for joining Improv Battle.", name,
		))
	}

	parts := make([]string, 0, len(c.state.Rounds)+2)
	parts = append(parts, fmt.Sprintf("Improv Battle summary for %s:", name))
	for i, round := range c.state.Rounds {
		reaction := round.HostReaction
		if reaction == "" {
			reaction = "No reaction summary stored."
		}
		parts = append(parts, fmt.Sprintf("Round %d: scenario='%s' | host_reaction='%s'", i+1, round.Scenario, reaction))
	}
	if !c.state.GameActive {
		parts = append(parts, "Game is marked as finished.")
	}

	return domain.Success(strings.Join(parts, " "))
}

// EndEarly stops the show on the spot, whatever the phase or round progress.
// Idempotent: ending an already-ended show re-confirms termination. A trimmed
// non-empty reason is echoed into the status.
func (c *Controller) EndEarly(reason string) domain.Outcome {
	c.state.GameActive = false
	c.state.Phase = domain.PhaseDone

	msg := "Game ended early by player request."
	if reason := strings.TrimSpace(reason); reason != "" {
		msg += fmt.Sprintf(" Reason: %s", reason)
	}

	c.logger.Printf("game ended early player=%s round=%d/%d", c.displayName(), c.state.CurrentRound, c.state.MaxRounds)
	return domain.Success(msg + " You should thank the player for playing and close the show politely.")
}

// Snapshot returns a deep copy of the session state for observers. Mutating
// the copy never touches the live session.
func (c *Controller) Snapshot() domain.State {
	return c.state.Clone()
}

// displayName is the player name used in log lines before one is recorded.
func (c *Controller) displayName() string {
	if c.state.PlayerName == "" {
		return "Player"
	}
	return c.state.PlayerName
}
