package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	gameservice "github.com/louisbranch/improv.show/internal/game/service"
	"github.com/louisbranch/improv.show/internal/mcp/conformance"
	"github.com/louisbranch/improv.show/internal/mcp/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Improv Battle MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// conformanceEnvVar enables MCP conformance fixtures when set to "1" or "true" (case-insensitive).
	conformanceEnvVar = "IMPROV_SHOW_MCP_CONFORMANCE"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over HTTP with one game per client session.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP server address (e.g., "localhost:8081"). Defaults to localhost:8081 for HTTP transport.
}

// Server hosts one game session behind an MCP server.
type Server struct {
	mcpServer *mcp.Server
	session   *domain.Session
}

// New creates an MCP server wired to a fresh game session.
func New() (*Server, error) {
	controller := gameservice.New(gameservice.Options{Logger: log.Default()})
	session, err := domain.NewSession(controller)
	if err != nil {
		return nil, fmt.Errorf("create game session: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerGameTools(mcpServer, session)
	registerGameResources(mcpServer, session)
	if conformanceEnabled() {
		conformance.Register(mcpServer)
	}

	return &Server{mcpServer: mcpServer, session: session}, nil
}

// conformanceEnabled reports whether conformance fixtures should be registered.
func conformanceEnabled() bool {
	value := strings.TrimSpace(os.Getenv(conformanceEnvVar))
	if value == "" {
		return false
	}
	return value == "1" || strings.EqualFold(value, "true")
}

// Session returns the game session served by this server.
func (s *Server) Session() *domain.Session {
	if s == nil {
		return nil
	}
	return s.session
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithHTTPTransport serves MCP over HTTP, creating a fresh game per session.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = "localhost:8081"
	}

	httpTransport := NewHTTPTransport(httpAddr, func() (*mcp.Server, error) {
		server, err := New()
		if err != nil {
			return nil, err
		}
		return server.mcpServer, nil
	})
	return httpTransport.Start(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, transport mcp.Transport) error {
	server, err := New()
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}
