package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/internal/jsonrpc"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/mcp"
	"github.com/Hypermindz-AI/mediamath-mcp-mock-sub001/sessions"
)

type fakeTools struct {
	tools  []mcp.Tool
	callFn func(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error)
	lastSC sessions.Context
}

func (f *fakeTools) ListTools(ctx context.Context) []mcp.Tool { return f.tools }

func (f *fakeTools) CallTool(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error) {
	f.lastSC = sc
	if f.callFn == nil {
		return &mcp.CallToolResult{Content: []mcp.ContentBlock{mcp.TextContent("ok")}}, nil
	}
	return f.callFn(ctx, name, args, sc)
}

type fakePrompts struct {
	prompts []mcp.Prompt
	getFn   func(name string, args map[string]string) (*mcp.GetPromptResult, bool, error)
}

func (f *fakePrompts) ListPrompts(ctx context.Context) []mcp.Prompt { return f.prompts }

func (f *fakePrompts) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, bool, error) {
	if f.getFn == nil {
		return nil, false, nil
	}
	return f.getFn(name, args)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *sessions.Store, *fakeTools, *fakePrompts) {
	t.Helper()
	store := sessions.NewStore()
	tools := &fakeTools{}
	prompts := &fakePrompts{}
	d := NewDispatcher(store, tools, prompts, mcp.ImplementationInfo{Name: "test", Version: "0.0.0"}, nil)
	return d, store, tools, prompts
}

func handle(t *testing.T, d *Dispatcher, body string, cc CallContext) *jsonrpc.Response {
	t.Helper()
	return d.HandleMessage(context.Background(), []byte(body), cc)
}

func requireErrorCode(t *testing.T, resp *jsonrpc.Response, code jsonrpc.ErrorCode) {
	t.Helper()
	if resp == nil {
		t.Fatal("expected a response, got nil")
	}
	if resp.Error == nil {
		t.Fatalf("expected error response, got result %s", resp.Result)
	}
	if resp.Error.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, resp.Error.Code, resp.Error.Message)
	}
}

func TestMalformedJSONIsParseError(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc": "2.0",`, CallContext{})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeParseError)
	if !resp.ID.IsNil() {
		t.Fatalf("expected null id, got %v", resp.ID.Value())
	}
}

func TestEnvelopeValidation(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	cases := []struct {
		name string
		body string
	}{
		{name: "array body", body: `[1,2,3]`},
		{name: "scalar body", body: `42`},
		{name: "missing jsonrpc", body: `{"method":"ping","id":1}`},
		{name: "wrong version", body: `{"jsonrpc":"1.0","method":"ping","id":1}`},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`},
		{name: "non-string method", body: `{"jsonrpc":"2.0","method":42,"id":1}`},
		{name: "object id", body: `{"jsonrpc":"2.0","method":"ping","id":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := handle(t, d, tc.body, CallContext{})
			requireErrorCode(t, resp, jsonrpc.ErrorCodeInvalidRequest)
			if !resp.ID.IsNil() {
				t.Fatalf("envelope rejection must carry null id, got %v", resp.ID.Value())
			}
		})
	}
}

func TestUnknownMethodNamesTheMethod(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"foo/bar","id":1}`, CallContext{})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeMethodNotFound)
	if !strings.Contains(resp.Error.Message, "foo/bar") {
		t.Fatalf("expected message to name foo/bar, got %q", resp.Error.Message)
	}
}

func TestResourcesReadIsMethodNotFound(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"resources/read","id":1,"params":{"uri":"x"}}`, CallContext{})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeMethodNotFound)
	if !strings.Contains(resp.Error.Message, "resources/read") {
		t.Fatalf("expected message to name resources/read, got %q", resp.Error.Message)
	}
}

func TestInitializeRejectsForeignProtocolVersion(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"initialize","id":1,"params":{"protocolVersion":"2024-11-05"}}`, CallContext{})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeInvalidParams)
}

func TestInitializeCreatesSession(t *testing.T) {
	d, store, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"initialize","id":1,"params":{"protocolVersion":"0.1","clientInfo":{"name":"agent","version":"1.0"}}}`,
		CallContext{UserID: 111, OrganizationID: 100048})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	var result mcp.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !strings.HasPrefix(result.SessionID, sessions.IDPrefix) {
		t.Fatalf("expected prefixed session id, got %q", result.SessionID)
	}
	if result.Capabilities.Tools == nil || !result.Capabilities.Tools.ListChanged {
		t.Fatal("expected tools capability with listChanged")
	}
	if result.Capabilities.Prompts == nil || !result.Capabilities.Prompts.ListChanged {
		t.Fatal("expected prompts capability with listChanged")
	}
	if result.Capabilities.Resources != nil {
		t.Fatal("expected resources capability to be disabled")
	}

	sess, ok := store.Get(result.SessionID)
	if !ok {
		t.Fatal("expected initialize to create a store entry")
	}
	if sess.UserID != 111 || sess.OrganizationID != 100048 {
		t.Fatalf("unexpected session identity: %+v", sess)
	}
}

func TestInitializeDefaultsIdentity(t *testing.T) {
	d, store, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"initialize","id":1,"params":{"protocolVersion":"0.1"}}`, CallContext{})
	var result mcp.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	sess, _ := store.Get(result.SessionID)
	if sess.UserID != defaultUserID || sess.OrganizationID != defaultOrganizationID {
		t.Fatalf("expected default identity, got %+v", sess)
	}
}

func TestLifecycleMethods(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	ping := handle(t, d, `{"jsonrpc":"2.0","method":"ping","id":1}`, CallContext{})
	if ping.Error != nil || string(ping.Result) != `{}` {
		t.Fatalf("expected empty object from ping, got %s / %+v", ping.Result, ping.Error)
	}

	shutdown := handle(t, d, `{"jsonrpc":"2.0","method":"shutdown","id":2}`, CallContext{})
	if shutdown.Error != nil || string(shutdown.Result) != `{}` {
		t.Fatalf("expected empty object from shutdown, got %s / %+v", shutdown.Result, shutdown.Error)
	}

	initialized := handle(t, d, `{"jsonrpc":"2.0","method":"initialized","id":3}`, CallContext{})
	if initialized.Error != nil || string(initialized.Result) != `null` {
		t.Fatalf("expected null result from initialized, got %s / %+v", initialized.Result, initialized.Error)
	}
}

func TestNotificationGetsNoResponse(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	if resp := handle(t, d, `{"jsonrpc":"2.0","method":"initialized"}`, CallContext{}); resp != nil {
		t.Fatalf("expected nil response for notification, got %+v", resp)
	}
	// Even unknown notifications are swallowed.
	if resp := handle(t, d, `{"jsonrpc":"2.0","method":"foo/bar"}`, CallContext{}); resp != nil {
		t.Fatalf("expected nil response for unknown notification, got %+v", resp)
	}
}

func TestToolsListDelegates(t *testing.T) {
	d, _, tools, _ := newTestDispatcher(t)
	tools.tools = []mcp.Tool{{Name: "find_campaigns", InputSchema: mcp.ToolInputSchema{Type: "object"}}}

	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/list","id":1}`, CallContext{})
	var result mcp.ListToolsResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "find_campaigns" {
		t.Fatalf("unexpected tools: %+v", result.Tools)
	}
}

func TestToolsCallRequiresSession(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"find_campaigns"}}`, CallContext{})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeAuthenticationFailed)

	data, ok := resp.Error.Data.(map[string]string)
	if !ok || data["category"] != jsonrpc.CategoryAuthenticationFailed {
		t.Fatalf("expected authentication_failed category, got %+v", resp.Error.Data)
	}
}

func TestToolsCallValidatesParams(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	missing := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1}`, CallContext{})
	requireErrorCode(t, missing, jsonrpc.ErrorCodeInvalidParams)

	unnamed := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":2,"params":{"arguments":{}}}`, CallContext{})
	requireErrorCode(t, unnamed, jsonrpc.ErrorCodeInvalidParams)

	numericName := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":3,"params":{"name":42}}`, CallContext{})
	requireErrorCode(t, numericName, jsonrpc.ErrorCodeInvalidParams)
}

func TestToolsCallBuildsContext(t *testing.T) {
	d, store, tools, _ := newTestDispatcher(t)
	sess := store.Create(111, 100048, "tok", mcp.ClientCapabilities{})

	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"find_campaigns","arguments":{}}}`,
		CallContext{SessionID: sess.ID})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	if tools.lastSC.SessionID != sess.ID || tools.lastSC.UserID != 111 || tools.lastSC.OrganizationID != 100048 {
		t.Fatalf("unexpected tool context: %+v", tools.lastSC)
	}
	if tools.lastSC.Role != DefaultRole {
		t.Fatalf("expected default role %q, got %q", DefaultRole, tools.lastSC.Role)
	}
}

func TestToolFailureBecomesResultNotError(t *testing.T) {
	d, store, tools, _ := newTestDispatcher(t)
	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	tools.callFn = func(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error) {
		return nil, fmt.Errorf("campaign 999 not found")
	}

	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"get_campaign_info"}}`,
		CallContext{SessionID: sess.ID})
	if resp.Error != nil {
		t.Fatalf("tool failure must not be a protocol error, got %+v", resp.Error)
	}

	var result mcp.CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected isError true")
	}
	if len(result.Content) != 1 || !strings.Contains(result.Content[0].Text, "campaign 999 not found") {
		t.Fatalf("expected failure text in content, got %+v", result.Content)
	}
}

func TestToolPanicBecomesInternalError(t *testing.T) {
	d, store, tools, _ := newTestDispatcher(t)
	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	tools.callFn = func(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error) {
		panic(fmt.Errorf("store corrupted"))
	}

	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"find_campaigns"}}`,
		CallContext{SessionID: sess.ID})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeInternalError)
	if !strings.Contains(resp.Error.Message, "store corrupted") {
		t.Fatalf("expected panic message to surface, got %q", resp.Error.Message)
	}
}

func TestPanicWithRPCErrorSerializesVerbatim(t *testing.T) {
	d, store, tools, _ := newTestDispatcher(t)
	sess := store.Create(1, 100048, "tok", mcp.ClientCapabilities{})
	tools.callFn = func(ctx context.Context, name string, args json.RawMessage, sc sessions.Context) (*mcp.CallToolResult, error) {
		panic(&jsonrpc.Error{Code: jsonrpc.ErrorCodeInvalidParams, Message: "bad argument shape"})
	}

	resp := handle(t, d, `{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"find_campaigns"}}`,
		CallContext{SessionID: sess.ID})
	requireErrorCode(t, resp, jsonrpc.ErrorCodeInvalidParams)
	if resp.Error.Message != "bad argument shape" {
		t.Fatalf("expected verbatim message, got %q", resp.Error.Message)
	}
}

func TestPromptsGet(t *testing.T) {
	d, _, _, prompts := newTestDispatcher(t)
	prompts.getFn = func(name string, args map[string]string) (*mcp.GetPromptResult, bool, error) {
		if name != "campaign_performance_review" {
			return nil, false, nil
		}
		return &mcp.GetPromptResult{Messages: []mcp.PromptMessage{{Role: "user", Content: mcp.TextContent("review")}}}, true, nil
	}

	unknown := handle(t, d, `{"jsonrpc":"2.0","method":"prompts/get","id":1,"params":{"name":"nope"}}`, CallContext{})
	requireErrorCode(t, unknown, jsonrpc.ErrorCodeMethodNotFound)
	if !strings.Contains(unknown.Error.Message, "nope") {
		t.Fatalf("expected message to name the prompt, got %q", unknown.Error.Message)
	}

	unnamed := handle(t, d, `{"jsonrpc":"2.0","method":"prompts/get","id":2,"params":{}}`, CallContext{})
	requireErrorCode(t, unnamed, jsonrpc.ErrorCodeInvalidParams)

	found := handle(t, d, `{"jsonrpc":"2.0","method":"prompts/get","id":3,"params":{"name":"campaign_performance_review"}}`, CallContext{})
	if found.Error != nil {
		t.Fatalf("unexpected error: %+v", found.Error)
	}
	var result mcp.GetPromptResult
	if err := json.Unmarshal(found.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(result.Messages))
	}
}

func TestResourcesListIsFixedEmpty(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)
	resp := handle(t, d, `{"jsonrpc":"2.0","method":"resources/list","id":1}`, CallContext{})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	var result mcp.ListResourcesResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Resources == nil || len(result.Resources) != 0 {
		t.Fatalf("expected empty (not null) resource list, got %s", resp.Result)
	}
}
