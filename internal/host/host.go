// Package host runs the Improv Battle console host backed by Gemini.
package host

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	gamedomain "github.com/louisbranch/improv.show/internal/game/domain"
	gameservice "github.com/louisbranch/improv.show/internal/game/service"
)

//go:embed prompts/instructions.txt
var hostInstructions string

// defaultModel is the Gemini model used when none is configured.
const defaultModel = "gemini-2.5-flash"

// Config configures the console host.
type Config struct {
	APIKey string
	Model  string
	Input  io.Reader // defaults to stdin
	Output io.Writer // defaults to stdout
}

// Host drives a Gemini-backed game show over a console transcript.
type Host struct {
	client     *genai.Client
	chat       *genai.ChatSession
	controller *gameservice.Controller
	in         *bufio.Scanner
	out        io.Writer
}

// New connects to Gemini and prepares a chat session with the game tools.
func New(ctx context.Context, cfg Config) (*Host, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	input := cfg.Input
	if input == nil {
		input = os.Stdin
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.Tools = GameTools()
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(hostInstructions)}}

	return &Host{
		client:     client,
		chat:       model.StartChat(),
		controller: gameservice.New(gameservice.Options{Logger: log.Default()}),
		in:         bufio.NewScanner(input),
		out:        output,
	}, nil
}

// Close releases the Gemini client.
func (h *Host) Close() {
	if h == nil || h.client == nil {
		return
	}
	h.client.Close()
}

// Run relays the conversation between player and model until the show ends
// or the input stream stops.
func (h *Host) Run(ctx context.Context) error {
	fmt.Fprintln(h.out, "Improv Battle (type 'quit' to leave the show)")

	if err := h.exchange(ctx, genai.Text("A player just joined the show. Greet them and ask for their name.")); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(h.out, "> ")
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		line := strings.TrimSpace(h.in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			outcome := h.controller.EndEarly("player left the console")
			fmt.Fprintln(h.out, outcome.Status)
			return nil
		}

		if err := h.exchange(ctx, genai.Text(line)); err != nil {
			return err
		}

		state := h.controller.Snapshot()
		if !state.GameActive && state.Phase == gamedomain.PhaseDone {
			return nil
		}
	}
}

// exchange sends parts to the model and resolves tool calls until text comes back.
func (h *Host) exchange(ctx context.Context, parts ...genai.Part) error {
	resp, err := h.chat.SendMessage(ctx, parts...)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	for {
		calls := h.relay(resp)
		if len(calls) == 0 {
			return nil
		}

		responses := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			responses = append(responses, Dispatch(h.controller, call))
		}

		resp, err = h.chat.SendMessage(ctx, responses...)
		if err != nil {
			return fmt.Errorf("send tool response: %w", err)
		}
	}
}

// relay prints the model's text parts and returns any function calls.
func (h *Host) relay(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			text := strings.TrimSpace(string(v))
			if text != "" {
				fmt.Fprintln(h.out, text)
			}
		case genai.FunctionCall:
			calls = append(calls, v)
		}
	}
	return calls
}
