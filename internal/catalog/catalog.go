// Package catalog holds the scenario deck the improv host deals from.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoScenarios indicates a catalog with nothing to deal.
var ErrNoScenarios = errors.New("catalog needs at least one scenario")

// Catalog is a fixed, ordered deck of scenario prompts. Picking from it has
// no state and no failure modes; it is a pure function of the random source.
type Catalog struct {
	scenarios []string
}

// Default returns the built-in Improv Battle deck.
func Default() Catalog {
	return Catalog{scenarios: []string{
		"You are a barista who has to tell a customer that their latte is actually a portal to another dimension.",
		"You are a time-travelling tour guide explaining modern smartphones to someone from the 1800s.",
		"You are a waiter who must calmly tell a customer that their order has literally escaped the kitchen.",
		"You are a customer trying to return an obviously cursed object to a very skeptical shop owner.",
		"You are a weather reporter who suddenly realizes the storm you're reporting is sentient and talking back.",
		"You are a support agent explaining to a dragon why their fire-breathing account has been temporarily suspended.",
	}}
}

// New builds a catalog from the given prompts, trimming whitespace and
// dropping blanks. Scenario content is not otherwise validated.
func New(scenarios []string) (Catalog, error) {
	deck := make([]string, 0, len(scenarios))
	for _, scenario := range scenarios {
		scenario = strings.TrimSpace(scenario)
		if scenario == "" {
			continue
		}
		deck = append(deck, scenario)
	}
	if len(deck) == 0 {
		return Catalog{}, ErrNoScenarios
	}
	return Catalog{scenarios: deck}, nil
}

// catalogFile is the on-disk shape of a custom deck.
type catalogFile struct {
	Scenarios []string `yaml:"scenarios"`
}

// Load reads a custom deck from a YAML file of the form:
//
//	scenarios:
//	  - "You are a ..."
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}
	deck, err := New(file.Scenarios)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return deck, nil
}

// Size returns the number of scenarios in the deck.
func (c Catalog) Size() int {
	return len(c.scenarios)
}

// Scenarios returns a copy of the deck in order.
func (c Catalog) Scenarios() []string {
	out := make([]string, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Pick returns one scenario chosen uniformly at random, with replacement.
// Repeats within a show are possible and deliberate; the deck is a prompt
// pool, not a draw pile.
func (c Catalog) Pick(rng *rand.Rand) string {
	return c.scenarios[rng.Intn(len(c.scenarios))]
}
