package sse

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrInvalidField indicates an event or id field containing line breaks,
	// which would corrupt the frame.
	ErrInvalidField = errors.New("sse: field must not contain line breaks")
)

const (
	fieldEvent = "event: "
	fieldID    = "id: "
	fieldRetry = "retry: "
	fieldData  = "data: "
)

// Event is one server-sent event prior to wire encoding.
type Event struct {
	// Type is the SSE event name ("connected", "ping", "notification").
	Type string
	// ID is the optional SSE event id.
	ID string
	// RetryMillis, when positive, emits a retry: line advising the client's
	// reconnect interval.
	RetryMillis int
	// Data is the payload: a string is written verbatim, anything else is
	// JSON encoded.
	Data any
}

// Encode renders the event in the standard SSE framing: optional event:,
// id:, and retry: lines, one data: line per payload line, terminated by a
// blank line. The byte format is the client-compatibility contract and is
// reproduced exactly.
func Encode(ev Event) ([]byte, error) {
	var sb strings.Builder

	if ev.Type != "" {
		if strings.ContainsAny(ev.Type, "\r\n") {
			return nil, ErrInvalidField
		}
		sb.WriteString(fieldEvent)
		sb.WriteString(ev.Type)
		sb.WriteByte('\n')
	}

	if ev.ID != "" {
		if strings.ContainsAny(ev.ID, "\r\n") {
			return nil, ErrInvalidField
		}
		sb.WriteString(fieldID)
		sb.WriteString(ev.ID)
		sb.WriteByte('\n')
	}

	if ev.RetryMillis > 0 {
		sb.WriteString(fieldRetry)
		sb.WriteString(strconv.Itoa(ev.RetryMillis))
		sb.WriteByte('\n')
	}

	data, err := encodeData(ev.Data)
	if err != nil {
		return nil, err
	}

	// Multiline payloads are split into one data: line each so the client
	// reassembles them with the original newlines.
	for _, line := range strings.Split(data, "\n") {
		sb.WriteString(fieldData)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func encodeData(data any) (string, error) {
	switch v := data.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
