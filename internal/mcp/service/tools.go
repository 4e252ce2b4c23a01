package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/improv.show/internal/mcp/domain"
)

// registerGameTools registers the six game commands as MCP tools.
func registerGameTools(mcpServer *mcp.Server, session *domain.Session) {
	mcp.AddTool(mcpServer, domain.RecordPlayerNameTool(), domain.RecordPlayerNameHandler(session))
	mcp.AddTool(mcpServer, domain.StartGameTool(), domain.StartGameHandler(session))
	mcp.AddTool(mcpServer, domain.NextScenarioTool(), domain.NextScenarioHandler(session))
	mcp.AddTool(mcpServer, domain.FinishRoundTool(), domain.FinishRoundHandler(session))
	mcp.AddTool(mcpServer, domain.GetSummaryTool(), domain.GetSummaryHandler(session))
	mcp.AddTool(mcpServer, domain.EndEarlyTool(), domain.EndEarlyHandler(session))
}

// registerGameResources registers readable game MCP resources.
func registerGameResources(mcpServer *mcp.Server, session *domain.Session) {
	mcpServer.AddResource(domain.GameStateResource(), domain.GameStateResourceHandler(session))
}
