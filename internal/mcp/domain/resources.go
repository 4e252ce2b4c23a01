package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GameStatePayload is the JSON body served by the game state resource.
type GameStatePayload struct {
	SessionID    string           `json:"session_id"`
	PlayerName   string           `json:"player_name,omitempty"`
	Phase        string           `json:"phase"`
	CurrentRound int              `json:"current_round"`
	MaxRounds    int              `json:"max_rounds"`
	GameActive   bool             `json:"game_active"`
	Rounds       []GameStateRound `json:"rounds"`
}

// GameStateRound is one dealt round in the game state payload.
type GameStateRound struct {
	Scenario     string `json:"scenario"`
	HostReaction string `json:"host_reaction,omitempty"`
	Reacted      bool   `json:"reacted"`
}

// GameStateResource defines a readable resource exposing the live session state.
func GameStateResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "game_state",
		Title:       "Game State",
		Description: "Current improv session state: phase, round counters, and every dealt round.",
		MIMEType:    "application/json",
		URI:         "improv://session/state",
	}
}

// GameStateResourceHandler serves the session snapshot as JSON.
func GameStateResourceHandler(session *Session) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if session == nil {
			return nil, fmt.Errorf("game session is not configured")
		}

		uri := GameStateResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		state := session.Snapshot()
		payload := GameStatePayload{
			SessionID:    session.ID(),
			PlayerName:   state.PlayerName,
			Phase:        state.Phase.String(),
			CurrentRound: state.CurrentRound,
			MaxRounds:    state.MaxRounds,
			GameActive:   state.GameActive,
			Rounds:       make([]GameStateRound, 0, len(state.Rounds)),
		}
		for _, round := range state.Rounds {
			payload.Rounds = append(payload.Rounds, GameStateRound{
				Scenario:     round.Scenario,
				HostReaction: round.HostReaction,
				Reacted:      round.Reacted,
			})
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal game state: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     string(data),
				},
			},
		}, nil
	}
}
