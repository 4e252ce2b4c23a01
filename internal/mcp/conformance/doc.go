// Package conformance carries protocol probe fixtures for exercising
// the MCP wire surface without touching game state.
//
// Probes answer with fixed payloads so an external harness can assert
// on them byte for byte. They stay out of regular binaries: compile
// with the conformance build tag, then flip the service's conformance
// env switch to register them.
package conformance
