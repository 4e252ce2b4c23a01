// Package showscript loads and replays Lua show scripts against the game
// engine. Scripts build a Show step by step and return it; the runner then
// drives a fresh controller through those steps.
package showscript

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const showTypeName = "show"

// Show is a scripted run of one Improv Battle session.
type Show struct {
	Name  string
	Steps []Step
}

// Step is a single scripted command plus its arguments.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadShowFromFile evaluates a Lua script that builds and returns a show.
func LoadShowFromFile(path string) (*Show, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("show script must return Show")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	show, ok := ud.(*Show)
	if !ok || show == nil {
		return nil, fmt.Errorf("show script returned invalid Show")
	}
	if strings.TrimSpace(show.Name) == "" {
		show.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return show, nil
}

func registerLuaTypes(state *lua.State) {
	registerShowType(state)
	registerShowConstructor(state)
}

func registerShowType(state *lua.State) {
	lua.NewMetaTable(state, showTypeName)
	state.NewTable()
	lua.SetFunctions(state, showMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerShowConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, showConstructor, 0)
	state.SetGlobal("Show")
}

var showConstructor = []lua.RegistryFunction{
	{Name: "new", Function: showNew},
}

func showNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	show := &Show{Name: name}
	state.PushUserData(show)
	lua.SetMetaTableNamed(state, showTypeName)
	return 1
}

var showMethods = []lua.RegistryFunction{
	{Name: "record_name", Function: showRecordName},
	{Name: "start_game", Function: showStartGame},
	{Name: "next_scenario", Function: showNextScenario},
	{Name: "finish_round", Function: showFinishRound},
	{Name: "summary", Function: showSummary},
	{Name: "end_early", Function: showEndEarly},
}

func showRecordName(state *lua.State) int {
	show := checkShow(state)
	name := lua.CheckString(state, 2)
	args := optionalTable(state, 3)
	args["name"] = name
	appendStep(show, "record_player_name", args)
	return 0
}

// showStartGame accepts an optional round count before the options table, so
// both start_game(2, {...}) and start_game({...}) parse.
func showStartGame(state *lua.State) int {
	show := checkShow(state)
	rounds := 0
	optsIndex := 2
	if state.TypeOf(2) == lua.TypeNumber {
		rounds = int(lua.CheckNumber(state, 2))
		optsIndex = 3
	}
	args := optionalTable(state, optsIndex)
	if rounds != 0 {
		args["max_rounds"] = rounds
	}
	appendStep(show, "start_game", args)
	return 0
}

func showNextScenario(state *lua.State) int {
	show := checkShow(state)
	appendStep(show, "next_scenario", optionalTable(state, 2))
	return 0
}

func showFinishRound(state *lua.State) int {
	show := checkShow(state)
	reaction := lua.CheckString(state, 2)
	args := optionalTable(state, 3)
	args["reaction_summary"] = reaction
	appendStep(show, "finish_round", args)
	return 0
}

func showSummary(state *lua.State) int {
	show := checkShow(state)
	appendStep(show, "get_summary", optionalTable(state, 2))
	return 0
}

// showEndEarly accepts an optional reason before the options table.
func showEndEarly(state *lua.State) int {
	show := checkShow(state)
	reason := ""
	optsIndex := 2
	if state.TypeOf(2) == lua.TypeString {
		reason = lua.CheckString(state, 2)
		optsIndex = 3
	}
	args := optionalTable(state, optsIndex)
	if reason != "" {
		args["reason"] = reason
	}
	appendStep(show, "end_early", args)
	return 0
}

func checkShow(state *lua.State) *Show {
	ud := lua.CheckUserData(state, 1, showTypeName)
	if show, ok := ud.(*Show); ok && show != nil {
		return show
	}
	lua.ArgumentError(state, 1, "show expected")
	return nil
}

func appendStep(show *Show, kind string, args map[string]any) {
	if show == nil {
		return
	}
	if args == nil {
		args = map[string]any{}
	}
	show.Steps = append(show.Steps, Step{Kind: kind, Args: args})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
