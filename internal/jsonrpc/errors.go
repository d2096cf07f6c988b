package jsonrpc

// ErrorCode is a JSON-RPC 2.0 error code.
type ErrorCode int

const (
	// ErrorCodeParseError indicates invalid JSON was received by the server.
	ErrorCodeParseError ErrorCode = -32700
	// ErrorCodeInvalidRequest indicates the JSON sent is not a valid Request object.
	ErrorCodeInvalidRequest ErrorCode = -32600
	// ErrorCodeMethodNotFound indicates the method does not exist / is not available.
	ErrorCodeMethodNotFound ErrorCode = -32601
	// ErrorCodeInvalidParams indicates invalid method parameters.
	ErrorCodeInvalidParams ErrorCode = -32602
	// ErrorCodeInternalError indicates an internal JSON-RPC error.
	ErrorCodeInternalError ErrorCode = -32603

	// ErrorCodeAuthenticationFailed is a server-defined code signalling that
	// the request required a valid session and none was presented.
	ErrorCodeAuthenticationFailed ErrorCode = -32000
)

// CategoryAuthenticationFailed is the machine-readable category attached to
// ErrorCodeAuthenticationFailed responses so clients can branch without
// matching on the human-readable message.
const CategoryAuthenticationFailed = "authentication_failed"

// NewAuthenticationError builds the error response used when a session-bound
// method is invoked without a live session.
func NewAuthenticationError(id *RequestID, message string) *Response {
	return NewErrorResponse(id, ErrorCodeAuthenticationFailed, message, map[string]string{
		"category": CategoryAuthenticationFailed,
	})
}
