package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	gamedomain "github.com/louisbranch/improv.show/internal/game/domain"
	"github.com/louisbranch/improv.show/internal/game/service"
)

// RecordPlayerNameInput represents the MCP tool input for recording the player's name.
type RecordPlayerNameInput struct {
	Name string `json:"name" jsonschema:"player name exactly as the player gave it"`
}

// RecordPlayerNameResult represents the MCP tool output for recording the player's name.
type RecordPlayerNameResult struct {
	Status     string `json:"status" jsonschema:"status and guidance text for the host to speak from"`
	Outcome    string `json:"outcome" jsonschema:"SUCCESS when the command took effect, NOOP when nothing changed"`
	PlayerName string `json:"player_name" jsonschema:"player name as stored, after trimming"`
}

// RecordPlayerNameTool defines the MCP tool schema for recording the player's name.
func RecordPlayerNameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "record_player_name",
		Description: "Stores the player's stage name. Call as soon as the player gives their name, or again if they correct it.",
	}
}

// RecordPlayerNameHandler records the player's name on the session.
func RecordPlayerNameHandler(session *Session) mcp.ToolHandlerFor[RecordPlayerNameInput, RecordPlayerNameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RecordPlayerNameInput) (*mcp.CallToolResult, RecordPlayerNameResult, error) {
		if session == nil {
			return nil, RecordPlayerNameResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "record_player_name", func(controller *service.Controller) gamedomain.Outcome {
			return controller.RecordPlayerName(input.Name)
		})

		return nil, RecordPlayerNameResult{
			Status:     outcome.Status,
			Outcome:    outcome.Kind.String(),
			PlayerName: state.PlayerName,
		}, nil
	}
}

// StartGameInput represents the MCP tool input for starting a game.
type StartGameInput struct {
	MaxRounds int `json:"max_rounds,omitempty" jsonschema:"optional round target; zero or negative keeps the previous value"`
}

// StartGameResult represents the MCP tool output for starting a game.
type StartGameResult struct {
	Status       string `json:"status" jsonschema:"status and guidance text for the host to speak from"`
	Outcome      string `json:"outcome" jsonschema:"SUCCESS when the command took effect, NOOP when nothing changed"`
	MaxRounds    int    `json:"max_rounds" jsonschema:"round target for the show"`
	CurrentRound int    `json:"current_round" jsonschema:"rounds dealt so far"`
	Phase        string `json:"phase" jsonschema:"session phase (intro, awaiting_improv, done)"`
	GameActive   bool   `json:"game_active" jsonschema:"whether the show can still accept rounds"`
}

// StartGameTool defines the MCP tool schema for starting a game.
func StartGameTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_game",
		Description: "Initializes a fresh game after the intro and rules. Resets round progress; call again at any point to restart.",
	}
}

// StartGameHandler starts or restarts the game on the session.
func StartGameHandler(session *Session) mcp.ToolHandlerFor[StartGameInput, StartGameResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartGameInput) (*mcp.CallToolResult, StartGameResult, error) {
		if session == nil {
			return nil, StartGameResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "start_game", func(controller *service.Controller) gamedomain.Outcome {
			return controller.StartGame(input.MaxRounds)
		})

		return nil, StartGameResult{
			Status:       outcome.Status,
			Outcome:      outcome.Kind.String(),
			MaxRounds:    state.MaxRounds,
			CurrentRound: state.CurrentRound,
			Phase:        state.Phase.String(),
			GameActive:   state.GameActive,
		}, nil
	}
}

// NextScenarioInput represents the MCP tool input for dealing the next scenario.
type NextScenarioInput struct{}

// NextScenarioResult represents the MCP tool output for dealing the next scenario.
type NextScenarioResult struct {
	Status       string `json:"status" jsonschema:"status and guidance text for the host to speak from"`
	Outcome      string `json:"outcome" jsonschema:"SUCCESS when a scenario was dealt, NOOP when the show cannot deal"`
	Scenario     string `json:"scenario,omitempty" jsonschema:"dealt scenario text, present only when a round started"`
	CurrentRound int    `json:"current_round" jsonschema:"rounds dealt so far"`
	MaxRounds    int    `json:"max_rounds" jsonschema:"round target for the show"`
	Phase        string `json:"phase" jsonschema:"session phase (intro, awaiting_improv, done)"`
	GameActive   bool   `json:"game_active" jsonschema:"whether the show can still accept rounds"`
}

// NextScenarioTool defines the MCP tool schema for dealing the next scenario.
func NextScenarioTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "next_scenario",
		Description: "Deals the scenario for the next round. Call at the start of each round once the player is ready.",
	}
}

// NextScenarioHandler deals the next scenario on the session.
func NextScenarioHandler(session *Session) mcp.ToolHandlerFor[NextScenarioInput, NextScenarioResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ NextScenarioInput) (*mcp.CallToolResult, NextScenarioResult, error) {
		if session == nil {
			return nil, NextScenarioResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "next_scenario", func(controller *service.Controller) gamedomain.Outcome {
			return controller.NextScenario()
		})

		result := NextScenarioResult{
			Status:       outcome.Status,
			Outcome:      outcome.Kind.String(),
			CurrentRound: state.CurrentRound,
			MaxRounds:    state.MaxRounds,
			Phase:        state.Phase.String(),
			GameActive:   state.GameActive,
		}
		if outcome.Kind == gamedomain.OutcomeSuccess && len(state.Rounds) > 0 {
			result.Scenario = state.Rounds[len(state.Rounds)-1].Scenario
		}

		return nil, result, nil
	}
}

// FinishRoundInput represents the MCP tool input for finishing the current round.
type FinishRoundInput struct {
	ReactionSummary string `json:"reaction_summary" jsonschema:"one or two sentence summary of the host's reaction to the performance"`
}

// FinishRoundResult represents the MCP tool output for finishing the current round.
type FinishRoundResult struct {
	Status       string `json:"status" jsonschema:"status and guidance text for the host to speak from"`
	Outcome      string `json:"outcome" jsonschema:"SUCCESS when the round settled, NOOP when no round was in flight"`
	CurrentRound int    `json:"current_round" jsonschema:"rounds dealt so far"`
	MaxRounds    int    `json:"max_rounds" jsonschema:"round target for the show"`
	Phase        string `json:"phase" jsonschema:"session phase (intro, awaiting_improv, done)"`
	GameActive   bool   `json:"game_active" jsonschema:"whether the show can still accept rounds"`
}

// FinishRoundTool defines the MCP tool schema for finishing the current round.
func FinishRoundTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "finish_round",
		Description: "Marks the current round finished and stores a short reaction summary. Call after reacting to the performance.",
	}
}

// FinishRoundHandler finishes the round in flight on the session.
func FinishRoundHandler(session *Session) mcp.ToolHandlerFor[FinishRoundInput, FinishRoundResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FinishRoundInput) (*mcp.CallToolResult, FinishRoundResult, error) {
		if session == nil {
			return nil, FinishRoundResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "finish_round", func(controller *service.Controller) gamedomain.Outcome {
			return controller.FinishRound(input.ReactionSummary)
		})

		return nil, FinishRoundResult{
			Status:       outcome.Status,
			Outcome:      outcome.Kind.String(),
			CurrentRound: state.CurrentRound,
			MaxRounds:    state.MaxRounds,
			Phase:        state.Phase.String(),
			GameActive:   state.GameActive,
		}, nil
	}
}

// GetSummaryInput represents the MCP tool input for building the closing recap.
type GetSummaryInput struct{}

// GetSummaryResult represents the MCP tool output for building the closing recap.
type GetSummaryResult struct {
	Status       string `json:"status" jsonschema:"recap text covering every round played"`
	Outcome      string `json:"outcome" jsonschema:"SUCCESS; the recap is always produced"`
	PlayerName   string `json:"player_name,omitempty" jsonschema:"stored player name, if recorded"`
	RoundsPlayed int    `json:"rounds_played" jsonschema:"number of rounds dealt"`
	GameActive   bool   `json:"game_active" jsonschema:"whether the show can still accept rounds"`
}

// GetSummaryTool defines the MCP tool schema for building the closing recap.
func GetSummaryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_summary",
		Description: "Builds the closing recap of every round played. Call when wrapping up the show.",
	}
}

// GetSummaryHandler builds the recap from the session.
func GetSummaryHandler(session *Session) mcp.ToolHandlerFor[GetSummaryInput, GetSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GetSummaryInput) (*mcp.CallToolResult, GetSummaryResult, error) {
		if session == nil {
			return nil, GetSummaryResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "get_summary", func(controller *service.Controller) gamedomain.Outcome {
			return controller.Summary()
		})

		return nil, GetSummaryResult{
			Status:       outcome.Status,
			Outcome:      outcome.Kind.String(),
			PlayerName:   state.PlayerName,
			RoundsPlayed: len(state.Rounds),
			GameActive:   state.GameActive,
		}, nil
	}
}

// EndEarlyInput represents the MCP tool input for ending the game early.
type EndEarlyInput struct {
	Reason string `json:"reason,omitempty" jsonschema:"optional short reason the player stopped"`
}

// EndEarlyResult represents the MCP tool output for ending the game early.
type EndEarlyResult struct {
	Status     string `json:"status" jsonschema:"status and guidance text for the host to speak from"`
	Outcome    string `json:"outcome" jsonschema:"SUCCESS; early termination always takes effect"`
	Phase      string `json:"phase" jsonschema:"session phase, done once ended"`
	GameActive bool   `json:"game_active" jsonschema:"whether the show can still accept rounds"`
}

// EndEarlyTool defines the MCP tool schema for ending the game early.
func EndEarlyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "end_early",
		Description: "Ends the game immediately at the player's request, before all rounds are played.",
	}
}

// EndEarlyHandler ends the game early on the session.
func EndEarlyHandler(session *Session) mcp.ToolHandlerFor[EndEarlyInput, EndEarlyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EndEarlyInput) (*mcp.CallToolResult, EndEarlyResult, error) {
		if session == nil {
			return nil, EndEarlyResult{}, fmt.Errorf("game session is not configured")
		}

		outcome, state := session.dispatch(ctx, "end_early", func(controller *service.Controller) gamedomain.Outcome {
			return controller.EndEarly(input.Reason)
		})

		return nil, EndEarlyResult{
			Status:     outcome.Status,
			Outcome:    outcome.Kind.String(),
			Phase:      state.Phase.String(),
			GameActive: state.GameActive,
		}, nil
	}
}
