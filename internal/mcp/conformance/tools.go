//go:build conformance

package conformance

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Probe payloads never change so a harness can pin them exactly.
const (
	probeTextPayload     = "probe text payload"
	probeToolErrPayload  = "probe tool error payload"
	probePromptPayload   = "probe prompt payload"
	probeResourcePayload = "probe resource payload"
	probeResourceURI     = "probe://static-text"
	probeStructuredNote  = "probe structured payload"
)

// errProbeFailure is the handler-level failure raised by probe_handler_failure.
var errProbeFailure = errors.New("probe handler failure")

// probeReport is the structured output served by probe_structured. It
// mirrors the shape game tools use: typed result, schema from tags.
type probeReport struct {
	Ok   bool   `json:"ok" jsonschema:"always true when the probe ran"`
	Note string `json:"note" jsonschema:"fixed note for byte-level assertions"`
}

// Register wires every probe fixture onto server: three tools covering
// the text, tool-error, and handler-error result paths, a structured
// tool, a prompt, and a static resource.
func Register(server *mcp.Server) {
	if server == nil {
		return
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "probe_text",
		Description: "Answers with a fixed text payload.",
	}, textProbe)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "probe_tool_error",
		Description: "Answers with a tool-level error result.",
	}, toolErrorProbe)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "probe_handler_failure",
		Description: "Fails inside the handler so the error surfaces through the protocol.",
	}, handlerFailureProbe)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "probe_structured",
		Description: "Answers with a fixed structured payload.",
	}, structuredProbe)
	server.AddPrompt(&mcp.Prompt{
		Name:        "probe_prompt",
		Description: "Expands to a single fixed user message.",
	}, promptProbe)
	server.AddResource(&mcp.Resource{
		Name:        "probe_static_text",
		Description: "Serves a fixed text body.",
		MIMEType:    "text/plain",
		URI:         probeResourceURI,
	}, resourceProbe)
}

func textProbe(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: probeTextPayload}},
	}, nil, nil
}

func toolErrorProbe(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: probeToolErrPayload}},
	}, nil, nil
}

func handlerFailureProbe(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return nil, nil, errProbeFailure
}

func structuredProbe(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, probeReport, error) {
	return nil, probeReport{Ok: true, Note: probeStructuredNote}, nil
}

func promptProbe(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: probePromptPayload},
			},
		},
	}, nil
}

func resourceProbe(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      probeResourceURI,
				MIMEType: "text/plain",
				Text:     probeResourcePayload,
			},
		},
	}, nil
}
