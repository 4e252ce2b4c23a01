package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	gamedomain "github.com/louisbranch/improv.show/internal/game/domain"
	"github.com/louisbranch/improv.show/internal/game/service"
)

// TestNewSessionAssignsID ensures sessions carry a stable lowercase id.
func TestNewSessionAssignsID(t *testing.T) {
	session, err := NewSession(nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	id := session.ID()
	if len(id) != 26 {
		t.Fatalf("expected 26-character id, got %d (%q)", len(id), id)
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("expected lowercase base32 id, got %q", id)
		}
	}
	if session.ID() != id {
		t.Fatal("expected id to be stable")
	}
}

// TestNewSessionDefaultsController ensures a nil controller gets a fresh game.
func TestNewSessionDefaultsController(t *testing.T) {
	session, err := NewSession(nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	state := session.Snapshot()
	if state.Phase != gamedomain.PhaseIntro {
		t.Fatalf("expected intro phase, got %v", state.Phase)
	}
	if state.MaxRounds != gamedomain.DefaultMaxRounds {
		t.Fatalf("expected default round target, got %d", state.MaxRounds)
	}
	if !state.GameActive {
		t.Fatal("expected active game")
	}
}

// TestSnapshotIsolatesCallers ensures callers cannot mutate session state.
func TestSnapshotIsolatesCallers(t *testing.T) {
	session, err := NewSession(service.New(service.Options{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	ctx := context.Background()
	if _, _, err := NextScenarioHandler(session)(ctx, &mcp.CallToolRequest{}, NextScenarioInput{}); err != nil {
		t.Fatalf("deal scenario: %v", err)
	}

	snapshot := session.Snapshot()
	snapshot.PlayerName = "intruder"
	snapshot.Rounds[0].Scenario = "tampered"

	state := session.Snapshot()
	if state.PlayerName != "" {
		t.Fatalf("expected untouched player name, got %q", state.PlayerName)
	}
	if state.Rounds[0].Scenario == "tampered" {
		t.Fatal("expected untouched round scenario")
	}
}

// TestSessionSerializesCommands ensures concurrent tool calls never lose a deal.
func TestSessionSerializesCommands(t *testing.T) {
	const rounds = 16

	controller := service.New(service.Options{})
	controller.StartGame(rounds)
	session, err := NewSession(controller)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	handler := NextScenarioHandler(session)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := handler(ctx, &mcp.CallToolRequest{}, NextScenarioInput{}); err != nil {
				t.Errorf("deal scenario: %v", err)
			}
		}()
	}
	wg.Wait()

	state := session.Snapshot()
	if state.CurrentRound != rounds {
		t.Fatalf("expected round counter %d, got %d", rounds, state.CurrentRound)
	}
	if len(state.Rounds) != rounds {
		t.Fatalf("expected %d dealt rounds, got %d", rounds, len(state.Rounds))
	}
	for i, round := range state.Rounds {
		if round.Scenario == "" {
			t.Fatalf("expected scenario for round %d", i+1)
		}
	}
}
