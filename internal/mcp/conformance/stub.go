//go:build !conformance

package conformance

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Register does nothing in regular builds; the probe fixtures only
// compile under the conformance tag.
func Register(*mcp.Server) {}
