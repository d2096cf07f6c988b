// Package dispatch validates, routes, and executes JSON-RPC 2.0 method
// calls against the session store and the tool/prompt registries, and
// translates every failure into a protocol-conformant error response.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/jsonrpc"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/logctx"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

// DefaultRole is the role attached to tool call contexts when the caller's
// credential carries none.
const DefaultRole = "campaign_manager"

// Identity used by initialize when the call context supplies none (API-key
// callers have no token claims to draw from).
const (
	defaultUserID         int64 = 1
	defaultOrganizationID int64 = 100048
)

// ToolRegistry lists and executes tools.
type ToolRegistry interface {
	ListTools(ctx context.Context) []mcp.Tool
	CallTool(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error)
}

// PromptRegistry lists and renders prompts. GetPrompt's boolean reports
// whether the name is known.
type PromptRegistry interface {
	ListPrompts(ctx context.Context) []mcp.Prompt
	GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, bool, error)
}

// CallContext carries per-request identity resolved at the HTTP boundary:
// the session id header and whatever the credential's claims established.
type CallContext struct {
	SessionID      string
	UserID         int64
	OrganizationID int64
	Role           string
	Credential     string
}

type handlerFunc func(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error)

// Dispatcher is the single protocol entry point. Routing is a flat method
// table; failure translation is centralized in HandleMessage rather than
// scattered per handler.
type Dispatcher struct {
	store      *sessions.Store
	tools      ToolRegistry
	prompts    PromptRegistry
	serverInfo mcp.ImplementationInfo
	log        *slog.Logger

	handlers map[string]handlerFunc
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(store *sessions.Store, tools ToolRegistry, prompts PromptRegistry, serverInfo mcp.ImplementationInfo, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		store:      store,
		tools:      tools,
		prompts:    prompts,
		serverInfo: serverInfo,
		log:        log,
	}
	d.handlers = map[string]handlerFunc{
		string(mcp.InitializeMethod):    d.handleInitialize,
		string(mcp.InitializedMethod):   d.handleInitialized,
		string(mcp.PingMethod):          d.handlePing,
		string(mcp.ShutdownMethod):      d.handleShutdown,
		string(mcp.ToolsListMethod):     d.handleToolsList,
		string(mcp.ToolsCallMethod):     d.handleToolsCall,
		string(mcp.PromptsListMethod):   d.handlePromptsList,
		string(mcp.PromptsGetMethod):    d.handlePromptsGet,
		string(mcp.ResourcesListMethod): d.handleResourcesList,
	}
	return d
}

// HandleMessage processes one raw JSON-RPC message. The returned response is
// nil for notifications (messages without an id), which get no reply.
func (d *Dispatcher) HandleMessage(ctx context.Context, raw []byte, cc CallContext) *jsonrpc.Response {
	var env struct {
		JSONRPC json.RawMessage `json:"jsonrpc"`
		Method  json.RawMessage `json:"method"`
		Params  json.RawMessage `json:"params"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeParseError, "Parse error", nil)
		}
		// Valid JSON, wrong shape (array, scalar, ...).
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInvalidRequest, "Invalid Request", nil)
	}

	var version string
	if err := json.Unmarshal(env.JSONRPC, &version); err != nil || version != jsonrpc.ProtocolVersion {
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInvalidRequest, "Invalid Request", nil)
	}
	var method string
	if err := json.Unmarshal(env.Method, &method); err != nil || method == "" {
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInvalidRequest, "Invalid Request", nil)
	}

	var id *jsonrpc.RequestID
	isNotification := len(env.ID) == 0
	if !isNotification {
		id = &jsonrpc.RequestID{}
		if err := id.UnmarshalJSON(env.ID); err != nil {
			return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeInvalidRequest, "Invalid Request", nil)
		}
	}

	req := &jsonrpc.Request{
		JSONRPCVersion: version,
		Method:         method,
		Params:         env.Params,
		ID:             id,
	}

	idText := ""
	if !isNotification {
		idText = id.String()
	}
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: method, ID: idText})

	result, err := d.dispatch(ctx, req, cc)
	if isNotification {
		if err != nil {
			d.log.InfoContext(ctx, "rpc.notification.fail", slog.String("err", err.Error()))
		}
		return nil
	}
	if err != nil {
		rpcErr := translateError(err)
		d.log.InfoContext(ctx, "rpc.fail",
			slog.Int("code", int(rpcErr.Code)),
			slog.String("err", rpcErr.Message),
		)
		return &jsonrpc.Response{
			JSONRPCVersion: jsonrpc.ProtocolVersion,
			Error:          rpcErr,
			ID:             id,
		}
	}

	resp, marshalErr := jsonrpc.NewResultResponse(id, result)
	if marshalErr != nil {
		d.log.ErrorContext(ctx, "rpc.encode.fail", slog.String("err", marshalErr.Error()))
		return jsonrpc.NewErrorResponse(id, jsonrpc.ErrorCodeInternalError, "Internal error", nil)
	}
	d.log.InfoContext(ctx, "rpc.ok")
	return resp
}

// dispatch routes to the method handler with panic containment. A recovered
// *jsonrpc.Error is passed through for verbatim serialization; any other
// panic degrades to an internal error.
func (d *Dispatcher) dispatch(ctx context.Context, req *jsonrpc.Request, cc CallContext) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *jsonrpc.Error:
				err = v
			case error:
				err = &jsonrpc.Error{Code: jsonrpc.ErrorCodeInternalError, Message: v.Error()}
			case string:
				err = &jsonrpc.Error{Code: jsonrpc.ErrorCodeInternalError, Message: v}
			default:
				err = &jsonrpc.Error{Code: jsonrpc.ErrorCodeInternalError, Message: "Internal error"}
			}
		}
	}()

	handler, ok := d.handlers[req.Method]
	if !ok {
		return nil, methodNotFound(req.Method)
	}
	return handler(ctx, req, cc)
}

// translateError maps a handler error to the wire error object. Errors that
// already carry a code/message/data triple serialize directly; everything
// else becomes an internal error bearing the error's message.
func translateError(err error) *jsonrpc.Error {
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	return &jsonrpc.Error{Code: jsonrpc.ErrorCodeInternalError, Message: err.Error()}
}

func methodNotFound(method string) *jsonrpc.Error {
	return &jsonrpc.Error{
		Code:    jsonrpc.ErrorCodeMethodNotFound,
		Message: "Method not found: " + method,
	}
}

func invalidParams(message string) *jsonrpc.Error {
	return &jsonrpc.Error{Code: jsonrpc.ErrorCodeInvalidParams, Message: message}
}

func (d *Dispatcher) handleInitialize(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	var params mcp.InitializeRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, invalidParams("invalid initialize params: " + err.Error())
		}
	}
	if !strings.HasPrefix(params.ProtocolVersion, mcp.ProtocolVersionPrefix) {
		return nil, invalidParams(fmt.Sprintf("unsupported protocol version %q", params.ProtocolVersion))
	}

	userID, orgID := cc.UserID, cc.OrganizationID
	if userID == 0 {
		userID = defaultUserID
	}
	if orgID == 0 {
		orgID = defaultOrganizationID
	}

	sess := d.store.Create(userID, orgID, cc.Credential, params.Capabilities)
	d.log.InfoContext(ctx, "session.create.ok",
		slog.String("session_id", sess.ID),
		slog.Int64("user_id", userID),
		slog.Int64("org_id", orgID),
	)

	return mcp.InitializeResult{
		ProtocolVersion: params.ProtocolVersion,
		Capabilities:    serverCapabilities(),
		ServerInfo:      d.serverInfo,
		SessionID:       sess.ID,
	}, nil
}

func (d *Dispatcher) handleInitialized(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return nil, nil
}

func (d *Dispatcher) handlePing(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return struct{}{}, nil
}

// shutdown acknowledges without deleting the session; teardown is a
// boundary-level operation (DELETE on the session resource).
func (d *Dispatcher) handleShutdown(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return struct{}{}, nil
}

func (d *Dispatcher) handleToolsList(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return mcp.ListToolsResult{Tools: d.tools.ListTools(ctx)}, nil
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	if len(req.Params) == 0 {
		return nil, invalidParams("tools/call requires params with a tool name")
	}
	var params mcp.CallToolRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, invalidParams("invalid tools/call params: " + err.Error())
	}
	if params.Name == "" {
		return nil, invalidParams("tool name is required")
	}

	sess, ok := d.store.Get(cc.SessionID)
	if !ok {
		return nil, &jsonrpc.Error{
			Code:    jsonrpc.ErrorCodeAuthenticationFailed,
			Message: "authentication required: no valid session",
			Data:    map[string]string{"category": jsonrpc.CategoryAuthenticationFailed},
		}
	}

	role := cc.Role
	if role == "" {
		role = DefaultRole
	}
	sc := sessions.Context{
		SessionID:      sess.ID,
		UserID:         sess.UserID,
		OrganizationID: sess.OrganizationID,
		Role:           role,
	}
	ctx = logctx.WithSessionData(ctx, &logctx.SessionData{
		SessionID:      sess.ID,
		UserID:         sess.UserID,
		OrganizationID: sess.OrganizationID,
	})

	res, err := d.tools.CallTool(ctx, params.Name, params.Arguments, sc)
	if err != nil {
		// Tool failures stay visible to the caller as data, never as
		// protocol errors.
		return mcp.ErrorResult(err.Error()), nil
	}
	return res, nil
}

func (d *Dispatcher) handlePromptsList(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return mcp.ListPromptsResult{Prompts: d.prompts.ListPrompts(ctx)}, nil
}

func (d *Dispatcher) handlePromptsGet(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	if len(req.Params) == 0 {
		return nil, invalidParams("prompts/get requires params with a prompt name")
	}
	var params mcp.GetPromptRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, invalidParams("invalid prompts/get params: " + err.Error())
	}
	if params.Name == "" {
		return nil, invalidParams("prompt name is required")
	}

	res, found, err := d.prompts.GetPrompt(ctx, params.Name, params.Arguments)
	if !found {
		return nil, &jsonrpc.Error{
			Code:    jsonrpc.ErrorCodeMethodNotFound,
			Message: "Prompt not found: " + params.Name,
		}
	}
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	return res, nil
}

// resources are feature flagged off: the list is served empty so clients
// that probe it get a well-formed answer, and reads fall through to the
// method-not-found path in dispatch (resources/read is not in the table).
func (d *Dispatcher) handleResourcesList(ctx context.Context, req *jsonrpc.Request, cc CallContext) (any, error) {
	return mcp.ListResourcesResult{Resources: []mcp.Resource{}}, nil
}

func serverCapabilities() mcp.ServerCapabilities {
	caps := mcp.ServerCapabilities{}
	caps.Tools = &struct {
		ListChanged bool `json:"listChanged"`
	}{ListChanged: true}
	caps.Prompts = &struct {
		ListChanged bool `json:"listChanged"`
	}{ListChanged: true}
	return caps
}
