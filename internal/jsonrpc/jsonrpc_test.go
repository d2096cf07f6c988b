package jsonrpc

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRequestIDUnmarshal(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    interface{}
		wantErr bool
	}{
		{name: "integer", input: `7`, want: int64(7)},
		{name: "float", input: `1.5`, want: 1.5},
		{name: "string", input: `"abc"`, want: "abc"},
		{name: "null", input: `null`, want: nil},
		{name: "object", input: `{"a":1}`, wantErr: true},
		{name: "array", input: `[1]`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id RequestID
			err := id.UnmarshalJSON([]byte(tc.input))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.Value() != tc.want {
				t.Fatalf("expected %v (%T), got %v (%T)", tc.want, tc.want, id.Value(), id.Value())
			}
		})
	}
}

func TestResponseIDAlwaysSerializes(t *testing.T) {
	resp := NewErrorResponse(nil, ErrorCodeInvalidRequest, "Invalid Request", nil)
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"id":null`) {
		t.Fatalf("expected explicit null id, got %s", b)
	}
}

func TestResultResponseRoundTrip(t *testing.T) {
	id := NewRequestID("req-1")
	resp, err := NewResultResponse(id, map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("build response: %v", err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, `"jsonrpc":"2.0"`) || !strings.Contains(s, `"id":"req-1"`) {
		t.Fatalf("unexpected envelope: %s", s)
	}
	if strings.Contains(s, `"error"`) {
		t.Fatalf("success response must omit error: %s", s)
	}
}

func TestAuthenticationError(t *testing.T) {
	id := NewRequestID(int64(9))
	resp := NewAuthenticationError(id, "authentication required: no valid session")
	if resp.Error == nil || resp.Error.Code != ErrorCodeAuthenticationFailed {
		t.Fatalf("expected code %d, got %+v", ErrorCodeAuthenticationFailed, resp.Error)
	}
	data, ok := resp.Error.Data.(map[string]string)
	if !ok || data["category"] != CategoryAuthenticationFailed {
		t.Fatalf("expected category %q in data, got %+v", CategoryAuthenticationFailed, resp.Error.Data)
	}
}

func TestErrorImplementsError(t *testing.T) {
	err := &Error{Code: ErrorCodeMethodNotFound, Message: "Method not found: foo/bar"}
	if !strings.Contains(err.Error(), "foo/bar") {
		t.Fatalf("unexpected error text: %s", err.Error())
	}
}
