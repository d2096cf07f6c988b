package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/fixtures"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/logctx"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

// Handler executes one tool call. Errors returned here are folded by the
// dispatcher into an isError tool result, never into a protocol error.
type Handler func(ctx context.Context, sc sessions.Context, args json.RawMessage) (*mcp.CallToolResult, error)

// Registry holds the mock's tool definitions and their handlers, all backed
// by the fixture store.
type Registry struct {
	mu       sync.RWMutex
	defs     []mcp.Tool
	handlers map[string]Handler

	data *fixtures.Store
	log  *slog.Logger
}

// NewRegistry builds the registry with the full MediaMath tool surface
// registered against the given fixture store.
func NewRegistry(data *fixtures.Store, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		handlers: make(map[string]Handler),
		data:     data,
		log:      log,
	}
	r.registerCampaignTools()
	r.registerStrategyTools()
	r.registerAudienceTools()
	r.registerAccountTools()
	r.registerSupplyTools()
	return r
}

// ListTools returns the tool definitions in registration order.
func (r *Registry) ListTools(ctx context.Context) []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]mcp.Tool, len(r.defs))
	copy(out, r.defs)
	return out
}

// CallTool executes the named tool with the session-derived context. An
// unknown name is an error; the caller decides how to surface it.
func (r *Registry) CallTool(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	ctx = logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: name})
	res, err := handler(ctx, sc, args)
	if err != nil {
		r.log.InfoContext(ctx, "tool.call.fail", slog.String("err", err.Error()))
		return nil, err
	}
	r.log.InfoContext(ctx, "tool.call.ok")
	return res, nil
}

// register wires one typed tool: the input schema is reflected from A and
// the handler decodes arguments into it before delegating.
func register[A any](r *Registry, name, description string, fn func(ctx context.Context, sc sessions.Context, args A) (any, error)) {
	def := mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: reflectInputSchema[A](),
	}

	handler := func(ctx context.Context, sc sessions.Context, raw json.RawMessage) (*mcp.CallToolResult, error) {
		var args A
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
		}
		out, err := fn(ctx, sc, args)
		if err != nil {
			return nil, err
		}
		return textResult(out)
	}

	r.mu.Lock()
	r.defs = append(r.defs, def)
	r.handlers[name] = handler
	r.mu.Unlock()
}

// textResult serializes a handler's return value as a pretty-printed JSON
// text content block, matching what the upstream agents parse out of
// content[0].text.
func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.ContentBlock{mcp.TextContent(string(b))},
	}, nil
}
