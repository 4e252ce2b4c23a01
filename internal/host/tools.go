package host

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"

	gamedomain "github.com/louisbranch/improv.show/internal/game/domain"
	gameservice "github.com/louisbranch/improv.show/internal/game/service"
)

// GameTools declares the six game commands to the model.
func GameTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "record_player_name",
				Description: "Stores the player's stage name. Call as soon as the player gives their name, or again if they correct it.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {Type: genai.TypeString, Description: "Player name exactly as the player gave it."},
					},
					Required: []string{"name"},
				},
			},
			{
				Name:        "start_game",
				Description: "Initializes a fresh game after the intro and rules. Resets round progress; call again at any point to restart.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"max_rounds": {Type: genai.TypeInteger, Description: "Optional round target; zero or negative keeps the previous value."},
					},
				},
			},
			{
				Name:        "next_scenario",
				Description: "Deals the scenario for the next round. Call at the start of each round once the player is ready.",
			},
			{
				Name:        "finish_round",
				Description: "Marks the current round finished and stores a short reaction summary. Call after reacting to the performance.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"reaction_summary": {Type: genai.TypeString, Description: "One or two sentence summary of the host's reaction."},
					},
					Required: []string{"reaction_summary"},
				},
			},
			{
				Name:        "get_summary",
				Description: "Builds the closing recap of every round played. Call when wrapping up the show.",
			},
			{
				Name:        "end_early",
				Description: "Ends the game immediately at the player's request, before all rounds are played.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"reason": {Type: genai.TypeString, Description: "Optional short reason the player stopped."},
					},
				},
			},
		},
	}}
}

// Dispatch runs one model-issued function call against the game.
func Dispatch(controller *gameservice.Controller, call genai.FunctionCall) genai.FunctionResponse {
	outcome := gamedomain.Outcome{
		Kind:   gamedomain.OutcomeUnspecified,
		Status: fmt.Sprintf("Unknown tool %q.", call.Name),
	}

	switch call.Name {
	case "record_player_name":
		outcome = controller.RecordPlayerName(stringArg(call.Args, "name"))
	case "start_game":
		outcome = controller.StartGame(intArg(call.Args, "max_rounds"))
	case "next_scenario":
		outcome = controller.NextScenario()
	case "finish_round":
		outcome = controller.FinishRound(stringArg(call.Args, "reaction_summary"))
	case "get_summary":
		outcome = controller.Summary()
	case "end_early":
		outcome = controller.EndEarly(stringArg(call.Args, "reason"))
	}

	return genai.FunctionResponse{
		Name: call.Name,
		Response: map[string]any{
			"status":  outcome.Status,
			"outcome": outcome.Kind.String(),
		},
	}
}

// stringArg reads a string argument from a function call.
func stringArg(args map[string]any, key string) string {
	value, _ := args[key].(string)
	return value
}

// intArg reads an integer argument, accepting the JSON number form.
func intArg(args map[string]any, key string) int {
	switch value := args[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	}
	return 0
}
