package domain

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	gamedomain "github.com/louisbranch/improv.show/internal/game/domain"
	"github.com/louisbranch/improv.show/internal/game/service"
	"github.com/louisbranch/improv.show/internal/platform/id"
)

// Session binds one game controller to one MCP session. The controller does
// no locking of its own; the session mutex is the single serialization point
// for tool calls arriving from the connected runtime.
type Session struct {
	id         string
	controller *service.Controller
	tracer     trace.Tracer

	mu sync.Mutex
}

// NewSession wraps a controller for MCP dispatch. A nil controller gets a
// fresh one with default options.
func NewSession(controller *service.Controller) (*Session, error) {
	if controller == nil {
		controller = service.New(service.Options{})
	}
	sessionID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	return &Session{
		id:         sessionID,
		controller: controller,
		tracer:     otel.Tracer("improv.mcp"),
	}, nil
}

// ID returns the generated session identifier carried in spans and logs.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the session state, taken under the session lock.
func (s *Session) Snapshot() gamedomain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Snapshot()
}

// dispatch runs one command under the session lock and traces it. The
// returned snapshot is taken in the same critical section as the command, so
// results always describe the state the command produced.
func (s *Session) dispatch(ctx context.Context, command string, run func(*service.Controller) gamedomain.Outcome) (gamedomain.Outcome, gamedomain.State) {
	_, span := s.tracer.Start(ctx, "mcp."+command)
	defer span.End()

	s.mu.Lock()
	outcome := run(s.controller)
	state := s.controller.Snapshot()
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("improv.session_id", s.id),
		attribute.String("improv.outcome", outcome.Kind.String()),
		attribute.String("improv.phase", state.Phase.String()),
		attribute.Int("improv.current_round", state.CurrentRound),
		attribute.Int("improv.max_rounds", state.MaxRounds),
	)
	return outcome, state
}
