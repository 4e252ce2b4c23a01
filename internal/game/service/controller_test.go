package service

import (
	"bytes"
	"log"
	"math/rand"
	"strings"
	"testing"

	"github.com/louisbranch/improv.show/internal/catalog"
	"github.com/louisbranch/improv.show/internal/game/domain"
)

// newTestController returns a controller with a deterministic random source.
func newTestController(t *testing.T) *Controller {
	t.Helper()
	return New(Options{Rand: rand.New(rand.NewSource(1))})
}

// TestNewDefaults ensures a zero-options controller opens a fresh session.
func TestNewDefaults(t *testing.T) {
	controller := New(Options{})

	state := controller.Snapshot()
	if state.Phase != domain.PhaseIntro {
		t.Fatalf("expected intro phase, got %v", state.Phase)
	}
	if state.MaxRounds != domain.DefaultMaxRounds {
		t.Fatalf("expected default max rounds, got %d", state.MaxRounds)
	}
	if !state.GameActive {
		t.Fatal("expected active game")
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
}

// TestRecordPlayerName ensures names are trimmed, defaulted, and overwritable.
func TestRecordPlayerName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantStatus string
	}{
		{
			name:       "plain name",
			input:      "Rae",
			wantName:   "Rae",
			wantStatus: "Player name set to Rae.",
		},
		{
			name:       "surrounding whitespace",
			input:      "  Jordan  ",
			wantName:   "Jordan",
			wantStatus: "Player name set to Jordan.",
		},
		{
			name:       "empty falls back to placeholder",
			input:      "   ",
			wantName:   "Player",
			wantStatus: "Player name set to Player.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := newTestController(t)

			outcome := controller.RecordPlayerName(tt.input)
			if outcome.Kind != domain.OutcomeSuccess {
				t.Fatalf("expected success, got %v", outcome.Kind)
			}
			if outcome.Status != tt.wantStatus {
				t.Fatalf("expected status %q, got %q", tt.wantStatus, outcome.Status)
			}
			if got := controller.Snapshot().PlayerName; got != tt.wantName {
				t.Fatalf("expected player name %q, got %q", tt.wantName, got)
			}
		})
	}
}

// TestRecordPlayerNameOverwrites ensures a correction replaces the stored name.
func TestRecordPlayerNameOverwrites(t *testing.T) {
	controller := newTestController(t)

	controller.RecordPlayerName("Ray")
	controller.RecordPlayerName("Rae")

	if got := controller.Snapshot().PlayerName; got != "Rae" {
		t.Fatalf("expected corrected name, got %q", got)
	}
}

// TestStartGameRoundTarget ensures only positive targets overwrite the stored one.
func TestStartGameRoundTarget(t *testing.T) {
	tests := []struct {
		name      string
		maxRounds int
		want      int
	}{
		{name: "positive target", maxRounds: 5, want: 5},
		{name: "zero keeps previous", maxRounds: 0, want: domain.DefaultMaxRounds},
		{name: "negative keeps previous", maxRounds: -2, want: domain.DefaultMaxRounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := newTestController(t)

			outcome := controller.StartGame(tt.maxRounds)
			if outcome.Kind != domain.OutcomeSuccess {
				t.Fatalf("expected success, got %v", outcome.Kind)
			}
			if got := controller.Snapshot().MaxRounds; got != tt.want {
				t.Fatalf("expected max rounds %d, got %d", tt.want, got)
			}
			if !strings.Contains(outcome.Status, "You can now fetch the first scenario using next_scenario.") {
				t.Fatalf("expected guidance in status, got %q", outcome.Status)
			}
		})
	}
}

// TestStartGameResetsAnyPhase ensures a restart zeroes progress from any state.
func TestStartGameResetsAnyPhase(t *testing.T) {
	controller := newTestController(t)
	controller.RecordPlayerName("Rae")
	controller.StartGame(2)
	controller.NextScenario()
	controller.FinishRound("good bit")
	controller.NextScenario()
	controller.EndEarly("had to leave")

	outcome := controller.StartGame(0)
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %v", outcome.Kind)
	}

	state := controller.Snapshot()
	if state.CurrentRound != 0 {
		t.Fatalf("expected round counter reset, got %d", state.CurrentRound)
	}
	if len(state.Rounds) != 0 {
		t.Fatalf("expected rounds cleared, got %d", len(state.Rounds))
	}
	if state.Phase != domain.PhaseIntro {
		t.Fatalf("expected intro phase, got %v", state.Phase)
	}
	if !state.GameActive {
		t.Fatal("expected reactivated game")
	}
	if state.MaxRounds != 2 {
		t.Fatalf("expected previous target kept, got %d", state.MaxRounds)
	}
	if state.PlayerName != "Rae" {
		t.Fatalf("expected player name to survive restart, got %q", state.PlayerName)
	}
}

// TestNextScenarioDealsRound ensures a deal advances the counter and phase.
func TestNextScenarioDealsRound(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(3)

	outcome := controller.NextScenario()
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %v", outcome.Kind)
	}
	if !strings.HasPrefix(outcome.Status, "This is round 1 out of 3. Scenario: ") {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	state := controller.Snapshot()
	if state.CurrentRound != 1 {
		t.Fatalf("expected current round 1, got %d", state.CurrentRound)
	}
	if len(state.Rounds) != state.CurrentRound {
		t.Fatalf("expected one round in flight, got %d rounds at round %d", len(state.Rounds), state.CurrentRound)
	}
	if state.Phase != domain.PhaseAwaitingImprov {
		t.Fatalf("expected awaiting_improv, got %v", state.Phase)
	}
	if state.Rounds[0].Scenario == "" {
		t.Fatal("expected dealt scenario text")
	}
	if state.Rounds[0].Reacted {
		t.Fatal("expected un-reacted round")
	}
	if !strings.Contains(outcome.Status, state.Rounds[0].Scenario) {
		t.Fatalf("expected scenario embedded in status, got %q", outcome.Status)
	}
}

// TestNextScenarioWhenStopped ensures a stopped show refuses to deal.
func TestNextScenarioWhenStopped(t *testing.T) {
	controller := newTestController(t)
	controller.EndEarly("")
	before := controller.Snapshot()

	outcome := controller.NextScenario()
	if outcome.Kind != domain.OutcomeNoop {
		t.Fatalf("expected noop, got %v", outcome.Kind)
	}
	if outcome.Status != "The game is already marked as finished or stopped." {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	after := controller.Snapshot()
	if after.CurrentRound != before.CurrentRound || len(after.Rounds) != len(before.Rounds) || after.Phase != before.Phase {
		t.Fatalf("expected no state change, got %+v", after)
	}
}

// TestNextScenarioWhenExhausted ensures an exhausted target settles the show
// instead of dealing past it.
func TestNextScenarioWhenExhausted(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(1)
	controller.NextScenario()

	outcome := controller.NextScenario()
	if outcome.Kind != domain.OutcomeNoop {
		t.Fatalf("expected noop, got %v", outcome.Kind)
	}
	if outcome.Status != "All rounds are already completed. You should move to the final summary and end the show." {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	state := controller.Snapshot()
	if state.CurrentRound != 1 {
		t.Fatalf("expected counter untouched, got %d", state.CurrentRound)
	}
	if len(state.Rounds) != 1 {
		t.Fatalf("expected no extra round, got %d", len(state.Rounds))
	}
	if state.Phase != domain.PhaseDone {
		t.Fatalf("expected done phase, got %v", state.Phase)
	}
	if state.GameActive {
		t.Fatal("expected inactive game once settled")
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
}

// TestFinishRoundWithoutDeal ensures finishing with no rounds changes nothing.
func TestFinishRoundWithoutDeal(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(3)
	before := controller.Snapshot()

	outcome := controller.FinishRound("great energy")
	if outcome.Kind != domain.OutcomeNoop {
		t.Fatalf("expected noop, got %v", outcome.Kind)
	}
	if outcome.Status != "There is no active round to finish." {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	after := controller.Snapshot()
	if after.Phase != before.Phase || after.CurrentRound != before.CurrentRound || len(after.Rounds) != 0 {
		t.Fatalf("expected no state change, got %+v", after)
	}
}

// TestFinishRoundMidShow ensures a mid-show finish stores the reaction and
// returns to intro banter.
func TestFinishRoundMidShow(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(3)
	controller.NextScenario()

	outcome := controller.FinishRound("  loved the dragon voice  ")
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %v", outcome.Kind)
	}
	if outcome.Status != "Round finished and reaction stored. You can now ask the player if they want the next scenario, and then call next_scenario when ready." {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	state := controller.Snapshot()
	if state.Phase != domain.PhaseIntro {
		t.Fatalf("expected intro phase, got %v", state.Phase)
	}
	if !state.GameActive {
		t.Fatal("expected active game")
	}
	round := state.Rounds[0]
	if round.HostReaction != "loved the dragon voice" {
		t.Fatalf("expected trimmed reaction, got %q", round.HostReaction)
	}
	if !round.Reacted {
		t.Fatal("expected reacted round")
	}
}

// TestFinishRoundFinal ensures the last finish wraps the show.
func TestFinishRoundFinal(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(1)
	controller.NextScenario()

	outcome := controller.FinishRound("a strong close")
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %v", outcome.Kind)
	}
	if outcome.Status != "All rounds are now complete. You should move to the final game summary by calling get_summary and then close the show." {
		t.Fatalf("unexpected status %q", outcome.Status)
	}

	state := controller.Snapshot()
	if state.Phase != domain.PhaseDone {
		t.Fatalf("expected done phase, got %v", state.Phase)
	}
	if state.GameActive {
		t.Fatal("expected inactive game")
	}
}

// TestFinishRoundBlankReaction ensures a blank reaction still settles the
// round and the summary falls back to the placeholder line.
func TestFinishRoundBlankReaction(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(2)
	controller.NextScenario()

	outcome := controller.FinishRound("   ")
	if outcome.Kind != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %v", outcome.Kind)
	}

	state := controller.Snapshot()
	if !state.Rounds[0].Reacted {
		t.Fatal("expected reacted round")
	}
	if state.Rounds[0].HostReaction != "" {
		t.Fatalf("expected empty stored reaction, got %q", state.Rounds[0].HostReaction)
	}

	summary := controller.Summary()
	if !strings.Contains(summary.Status, "No reaction summary stored.") {
		t.Fatalf("expected placeholder in summary, got %q", summary.Status)
	}
}

// TestEndEarly ensures early termination is unconditional and idempotent.
func TestEndEarly(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		controller := newTestController(t)
		controller.StartGame(3)
		controller.NextScenario()

		outcome := controller.EndEarly("player asked to stop")
		if outcome.Kind != domain.OutcomeSuccess {
			t.Fatalf("expected success, got %v", outcome.Kind)
		}
		want := "Game ended early by player request. Reason: player asked to stop You should thank the player for playing and close the show politely."
		if outcome.Status != want {
			t.Fatalf("expected status %q, got %q", want, outcome.Status)
		}

		state := controller.Snapshot()
		if state.Phase != domain.PhaseDone || state.GameActive {
			t.Fatalf("expected terminal state, got %+v", state)
		}
	})

	t.Run("without reason", func(t *testing.T) {
		controller := newTestController(t)

		outcome := controller.EndEarly("  ")
		if strings.Contains(outcome.Status, "Reason:") {
			t.Fatalf("expected no reason clause, got %q", outcome.Status)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		controller := newTestController(t)
		controller.StartGame(3)
		controller.NextScenario()

		controller.EndEarly("first stop")
		first := controller.Snapshot()
		outcome := controller.EndEarly("second stop")
		second := controller.Snapshot()

		if outcome.Kind != domain.OutcomeSuccess {
			t.Fatalf("expected success, got %v", outcome.Kind)
		}
		if first.Phase != second.Phase || first.GameActive != second.GameActive ||
			first.CurrentRound != second.CurrentRound || len(first.Rounds) != len(second.Rounds) {
			t.Fatalf("expected identical terminal state, got %+v then %+v", first, second)
		}
	})
}

// TestSummary ensures the recap covers fresh, mid-show, and finished games.
func TestSummary(t *testing.T) {
	t.Run("fresh game", func(t *testing.T) {
		controller := newTestController(t)

		outcome := controller.Summary()
		if outcome.Kind != domain.OutcomeSuccess {
			t.Fatalf("expected success, got %v", outcome.Kind)
		}
		if outcome.Status != "No rounds were played for the player. You should still thank them for joining Improv Battle." {
			t.Fatalf("unexpected status %q", outcome.Status)
		}
	})

	t.Run("fresh game with name", func(t *testing.T) {
		controller := newTestController(t)
		controller.RecordPlayerName("Rae")

		outcome := controller.Summary()
		if outcome.Status != "No rounds were played for Rae. You should still thank them for joining Improv Battle." {
			t.Fatalf("unexpected status %q", outcome.Status)
		}
	})

	t.Run("mid show", func(t *testing.T) {
		controller := newTestController(t)
		controller.RecordPlayerName("Rae")
		controller.StartGame(3)
		controller.NextScenario()
		controller.FinishRound("big laugh")
		controller.NextScenario()

		before := controller.Snapshot()
		outcome := controller.Summary()
		after := controller.Snapshot()

		if !strings.HasPrefix(outcome.Status, "Improv Battle summary for Rae: Round 1: scenario='") {
			t.Fatalf("unexpected status %q", outcome.Status)
		}
		if !strings.Contains(outcome.Status, "host_reaction='big laugh'") {
			t.Fatalf("expected stored reaction, got %q", outcome.Status)
		}
		if !strings.Contains(outcome.Status, "Round 2: scenario='") {
			t.Fatalf("expected second round, got %q", outcome.Status)
		}
		if !strings.Contains(outcome.Status, "host_reaction='No reaction summary stored.'") {
			t.Fatalf("expected placeholder for round in flight, got %q", outcome.Status)
		}
		if strings.Contains(outcome.Status, "Game is marked as finished.") {
			t.Fatalf("expected no finished note while active, got %q", outcome.Status)
		}

		if before.Phase != after.Phase || before.CurrentRound != after.CurrentRound || len(before.Rounds) != len(after.Rounds) {
			t.Fatal("expected summary to leave state untouched")
		}
	})

	t.Run("finished show", func(t *testing.T) {
		controller := newTestController(t)
		controller.RecordPlayerName("Rae")
		controller.StartGame(1)
		controller.NextScenario()
		controller.FinishRound("what a finale")

		outcome := controller.Summary()
		if !strings.HasSuffix(outcome.Status, "Game is marked as finished.") {
			t.Fatalf("expected finished note, got %q", outcome.Status)
		}
	})
}

// TestRoundTrip walks a full two-round show and checks the invariants hold
// after every command.
func TestRoundTrip(t *testing.T) {
	controller := newTestController(t)

	steps := []struct {
		name string
		run  func() domain.Outcome
	}{
		{name: "record name", run: func() domain.Outcome { return controller.RecordPlayerName("Rae") }},
		{name: "start game", run: func() domain.Outcome { return controller.StartGame(2) }},
		{name: "deal round one", run: func() domain.Outcome { return controller.NextScenario() }},
		{name: "finish round one", run: func() domain.Outcome { return controller.FinishRound("ok") }},
		{name: "deal round two", run: func() domain.Outcome { return controller.NextScenario() }},
		{name: "finish round two", run: func() domain.Outcome { return controller.FinishRound("great") }},
	}

	for _, step := range steps {
		outcome := step.run()
		if outcome.Kind != domain.OutcomeSuccess {
			t.Fatalf("%s: expected success, got %v with status %q", step.name, outcome.Kind, outcome.Status)
		}
		if err := controller.Snapshot().Validate(); err != nil {
			t.Fatalf("%s: state invariant violated: %v", step.name, err)
		}
	}

	state := controller.Snapshot()
	if state.Phase != domain.PhaseDone {
		t.Fatalf("expected done phase, got %v", state.Phase)
	}
	if state.GameActive {
		t.Fatal("expected inactive game")
	}
	if len(state.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(state.Rounds))
	}
	for i, round := range state.Rounds {
		if round.HostReaction == "" || !round.Reacted {
			t.Fatalf("round %d missing reaction: %+v", i+1, round)
		}
	}
}

// TestMisuseSequenceLeavesStateValid hammers out-of-order commands and checks
// every one reports a well-formed outcome and leaves the invariants intact.
func TestMisuseSequenceLeavesStateValid(t *testing.T) {
	controller := newTestController(t)

	commands := []func() domain.Outcome{
		func() domain.Outcome { return controller.FinishRound("nothing dealt yet") },
		func() domain.Outcome { return controller.Summary() },
		func() domain.Outcome { return controller.NextScenario() },
		func() domain.Outcome { return controller.EndEarly("stop") },
		func() domain.Outcome { return controller.NextScenario() },
		func() domain.Outcome { return controller.FinishRound("late reaction") },
		func() domain.Outcome { return controller.Summary() },
		func() domain.Outcome { return controller.EndEarly("") },
		func() domain.Outcome { return controller.StartGame(-1) },
	}

	for i, command := range commands {
		outcome := command()
		if outcome.Kind == domain.OutcomeUnspecified {
			t.Fatalf("command %d: outcome kind unspecified", i)
		}
		if outcome.Status == "" {
			t.Fatalf("command %d: empty status", i)
		}
		if err := controller.Snapshot().Validate(); err != nil {
			t.Fatalf("command %d: state invariant violated: %v", i, err)
		}
	}
}

// TestRoundsMatchCounterAfterDeals ensures every deal keeps the dealt rounds
// aligned with the round counter, even when deals come back to back.
func TestRoundsMatchCounterAfterDeals(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(3)

	deals := []func() domain.Outcome{
		controller.NextScenario,
		controller.NextScenario,
		controller.NextScenario,
	}
	for i, deal := range deals {
		deal()
		state := controller.Snapshot()
		if len(state.Rounds) != state.CurrentRound {
			t.Fatalf("deal %d: %d rounds at counter %d", i+1, len(state.Rounds), state.CurrentRound)
		}
	}
}

// TestScenarioRepeatsPermitted ensures draws replace: a long show must reuse
// a scenario once the deck is smaller than the round count.
func TestScenarioRepeatsPermitted(t *testing.T) {
	controller := newTestController(t)
	deckSize := catalog.Default().Size()
	rounds := deckSize + 4

	controller.StartGame(rounds)
	for i := 0; i < rounds; i++ {
		controller.NextScenario()
		controller.FinishRound("noted")
	}

	seen := make(map[string]bool)
	repeated := false
	for _, round := range controller.Snapshot().Rounds {
		if seen[round.Scenario] {
			repeated = true
			break
		}
		seen[round.Scenario] = true
	}
	if !repeated {
		t.Fatal("expected at least one repeated scenario in a long show")
	}
}

// TestSnapshotIsolation ensures observers cannot reach the live state.
func TestSnapshotIsolation(t *testing.T) {
	controller := newTestController(t)
	controller.StartGame(2)
	controller.NextScenario()

	snapshot := controller.Snapshot()
	snapshot.Rounds[0].Scenario = "tampered"
	snapshot.PlayerName = "tampered"

	state := controller.Snapshot()
	if state.Rounds[0].Scenario == "tampered" {
		t.Fatal("snapshot aliases live rounds")
	}
	if state.PlayerName == "tampered" {
		t.Fatal("snapshot aliases live state")
	}
}

// TestDeterministicDealsPerSeed ensures two controllers with the same seed
// deal the same show.
func TestDeterministicDealsPerSeed(t *testing.T) {
	first := New(Options{Rand: rand.New(rand.NewSource(99))})
	second := New(Options{Rand: rand.New(rand.NewSource(99))})

	first.StartGame(4)
	second.StartGame(4)
	for i := 0; i < 4; i++ {
		a := first.NextScenario()
		b := second.NextScenario()
		if a.Status != b.Status {
			t.Fatalf("deal %d diverged: %q vs %q", i+1, a.Status, b.Status)
		}
		first.FinishRound("ok")
		second.FinishRound("ok")
	}
}

// TestCommandLogging ensures mutating commands write one line through the
// injected logger and the pure read stays quiet.
func TestCommandLogging(t *testing.T) {
	var buf bytes.Buffer
	controller := New(Options{
		Rand:   rand.New(rand.NewSource(1)),
		Logger: log.New(&buf, "", 0),
	})

	controller.RecordPlayerName("Rae")
	controller.StartGame(2)
	controller.NextScenario()
	controller.FinishRound("nice")
	buf.Reset()

	controller.Summary()
	if buf.Len() != 0 {
		t.Fatalf("expected summary to log nothing, got %q", buf.String())
	}

	controller.EndEarly("stop")
	if !strings.Contains(buf.String(), "game ended early") {
		t.Fatalf("expected end log line, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "player=Rae") {
		t.Fatalf("expected player field, got %q", buf.String())
	}
}
