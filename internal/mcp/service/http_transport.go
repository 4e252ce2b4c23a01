package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/improv.show/internal/platform/id"
)

const (
	// sessionHeader carries the MCP session identifier across HTTP round-trips.
	sessionHeader = "Mcp-Session-Id"
	// defaultRequestTimeout bounds how long a request waits for its response.
	defaultRequestTimeout = 30 * time.Second
)

// HTTPTransport serves MCP over HTTP POST requests with SSE for notifications.
// Every session gets its own MCP server so concurrent clients play independent
// games.
type HTTPTransport struct {
	addr         string
	newServer    func() (*mcp.Server, error)
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
}

// httpSession binds one HTTP client to one MCP server and its connection.
type httpSession struct {
	id        string
	conn      *httpConnection
	server    *mcp.Server
	createdAt time.Time
	lastUsed  time.Time
	runOnce   sync.Once
}

// httpConnection implements mcp.Connection for HTTP-based communication.
// Responses flow back to the HTTP handler through respChan while
// server-initiated messages flow to the SSE stream through notifyChan.
type httpConnection struct {
	sessionID  string
	reqChan    chan jsonrpc.Message
	respChan   chan jsonrpc.Message
	notifyChan chan jsonrpc.Message
	closed     chan struct{}
	mu         sync.Mutex
	closedFlag bool
}

// NewHTTPTransport creates an HTTP transport that builds one MCP server per session.
func NewHTTPTransport(addr string, newServer func() (*mcp.Server, error)) *HTTPTransport {
	if addr == "" {
		addr = "localhost:8081"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		newServer:    newServer,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
	}
}

// Start starts the HTTP server and blocks until the context ends or the server fails.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/messages", t.handleMessages)
	mux.HandleFunc("/mcp/sse", t.handleSSE)
	mux.HandleFunc("/mcp/health", t.handleHealth)

	t.httpServer = &http.Server{
		Addr:    t.addr,
		Handler: mux,
	}

	log.Printf("Starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := t.httpServer.Shutdown(shutdownCtx)
		t.serverCancel()
		t.closeSessions()
		if err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// openSession creates a session with its own MCP server and registers it.
func (t *HTTPTransport) openSession() (*httpSession, error) {
	if t.newServer == nil {
		return nil, fmt.Errorf("MCP server factory is not configured")
	}
	server, err := t.newServer()
	if err != nil {
		return nil, fmt.Errorf("create MCP server: %w", err)
	}
	sessionID, err := id.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	sessionID = "session_" + sessionID

	now := time.Now()
	session := &httpSession{
		id:     sessionID,
		server: server,
		conn: &httpConnection{
			sessionID:  sessionID,
			reqChan:    make(chan jsonrpc.Message, 10),
			respChan:   make(chan jsonrpc.Message, 10),
			notifyChan: make(chan jsonrpc.Message, 10),
			closed:     make(chan struct{}),
		},
		createdAt: now,
		lastUsed:  now,
	}

	t.sessionsMu.Lock()
	t.sessions[session.id] = session
	t.sessionsMu.Unlock()

	return session, nil
}

// lookupSession returns the registered session for the given id, if any.
func (t *HTTPTransport) lookupSession(sessionID string) *httpSession {
	if sessionID == "" {
		return nil
	}
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return t.sessions[sessionID]
}

// touchSession records that a session handled traffic.
func (t *HTTPTransport) touchSession(session *httpSession) {
	t.sessionsMu.Lock()
	session.lastUsed = time.Now()
	t.sessionsMu.Unlock()
}

// closeSessions closes every session connection and clears the registry.
func (t *HTTPTransport) closeSessions() {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()
	for sessionID, session := range t.sessions {
		_ = session.conn.Close()
		delete(t.sessions, sessionID)
	}
}

// handleMessages handles POST /mcp/messages for JSON-RPC requests.
func (t *HTTPTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	msg, err := jsonrpc.DecodeMessage(body)
	if err != nil {
		http.Error(w, "Invalid JSON-RPC message", http.StatusBadRequest)
		return
	}

	session := t.lookupSession(strings.TrimSpace(r.Header.Get(sessionHeader)))
	if session == nil {
		session, err = t.openSession()
		if err != nil {
			log.Printf("Failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set(sessionHeader, session.id)

	t.touchSession(session)
	t.ensureServerRunning(session)

	var isRequest bool
	switch v := msg.(type) {
	case *jsonrpc.Request:
		// Notifications carry a zero ID and expect no response.
		isRequest = v.ID != jsonrpc.ID{}
	case *jsonrpc.Response:
		http.Error(w, "Invalid message type: response", http.StatusBadRequest)
		return
	default:
		isRequest = true
	}

	select {
	case session.conn.reqChan <- msg:
	case <-session.conn.closed:
		http.Error(w, "Session closed", http.StatusGone)
		return
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
		return
	}

	if !isRequest {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	select {
	case resp := <-session.conn.respChan:
		data, err := jsonrpc.EncodeMessage(resp)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			log.Printf("Failed to write response: %v", err)
		}
	case <-session.conn.closed:
		http.Error(w, "Session closed", http.StatusGone)
	case <-r.Context().Done():
		http.Error(w, "Request cancelled", http.StatusRequestTimeout)
	case <-time.After(defaultRequestTimeout):
		http.Error(w, "Request timeout", http.StatusRequestTimeout)
	}
}

// handleSSE handles GET /mcp/sse for server-initiated message streaming.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := t.lookupSession(strings.TrimSpace(r.URL.Query().Get("session")))
	if session == nil {
		var err error
		session, err = t.openSession()
		if err != nil {
			log.Printf("Failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
	}

	t.touchSession(session)
	t.ensureServerRunning(session)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set(sessionHeader, session.id)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.conn.closed:
			return
		case msg := <-session.conn.notifyChan:
			data, err := jsonrpc.EncodeMessage(msg)
			if err != nil {
				log.Printf("Failed to encode SSE message: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// handleHealth handles GET /mcp/health for health checks.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// ensureServerRunning starts the session's MCP server loop exactly once.
func (t *HTTPTransport) ensureServerRunning(session *httpSession) {
	if session == nil || session.server == nil {
		return
	}
	session.runOnce.Do(func() {
		transport := &sessionTransport{conn: session.conn}
		go func() {
			_ = session.server.Run(t.serverCtx, transport)
		}()
	})
}

// sessionTransport hands a pre-built connection to Server.Run.
type sessionTransport struct {
	conn mcp.Connection
}

// Connect implements mcp.Transport.Connect.
func (st *sessionTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return st.conn, nil
}

// Read implements mcp.Connection.Read.
func (c *httpConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	select {
	case msg := <-c.reqChan:
		return msg, nil
	case <-c.closed:
		return nil, fmt.Errorf("connection closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Write implements mcp.Connection.Write.
// Responses route to the pending HTTP request while everything else routes to
// the SSE stream.
func (c *httpConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	c.mu.Lock()
	closed := c.closedFlag
	c.mu.Unlock()
	if closed {
		return fmt.Errorf("connection closed")
	}

	target := c.notifyChan
	if resp, ok := msg.(*jsonrpc.Response); ok && resp.ID != (jsonrpc.ID{}) {
		target = c.respChan
	}

	select {
	case target <- msg:
		return nil
	case <-c.closed:
		return fmt.Errorf("connection closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements mcp.Connection.Close.
func (c *httpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedFlag {
		return nil
	}

	c.closedFlag = true
	close(c.closed)
	return nil
}

// SessionID implements mcp.Connection.SessionID.
func (c *httpConnection) SessionID() string {
	return c.sessionID
}
