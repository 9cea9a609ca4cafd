package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

type EventType string

const (
	TypeAuth        EventType = "auth"
	TypeChat        EventType = "chat"
	TypeLines       EventType = "lines"
	TypeMouse       EventType = "mouse"
	TypeTool        EventType = "tool"
	TypeJoin        EventType = "join"
	TypeLeave       EventType = "leave"
	TypeChatHistory EventType = "chat_history"
	TypeError       EventType = "error"
)

var validTools = map[string]struct{}{
	"pen":    {},
	"eraser": {},
	"select": {},
}

// Drop reasons. A dropped event is never fatal to the connection; the reason
// feeds the session_events_dropped_total metric and a debug log line.
var (
	errUnknownType    = errors.New("unknown event type")
	errMalformed      = errors.New("malformed event")
	errMissingField   = errors.New("missing required field")
	errBadCoordinate  = errors.New("coordinate is not an integer")
	errBadTool        = errors.New("tool not in allowed set")
	errUnexpectedAuth = errors.New("auth after join")
)

// Event is the tagged variant over the inbound message kinds. Parsing happens
// once at the connection boundary; the hub only ever sees well-formed events.
type Event interface {
	Type() EventType
}

type AuthEvent struct {
	Token string
}

type ChatEvent struct {
	Message string
}

type LinesEvent struct {
	Lines json.RawMessage
}

type MouseEvent struct {
	X int64
	Y int64
}

type ToolEvent struct {
	Tool string
}

func (AuthEvent) Type() EventType  { return TypeAuth }
func (ChatEvent) Type() EventType  { return TypeChat }
func (LinesEvent) Type() EventType { return TypeLines }
func (MouseEvent) Type() EventType { return TypeMouse }
func (ToolEvent) Type() EventType  { return TypeTool }

type envelope struct {
	Type    EventType       `json:"type"`
	Token   string          `json:"token"`
	Message json.RawMessage `json:"message"`
	Lines   json.RawMessage `json:"lines"`
	X       json.RawMessage `json:"x"`
	Y       json.RawMessage `json:"y"`
	Tool    json.RawMessage `json:"tool"`
}

// ParseEvent decodes one inbound frame into its event variant. Any returned
// error means "drop": the frame produces no broadcast and no state change.
func ParseEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errMalformed
	}

	switch env.Type {
	case TypeAuth:
		return AuthEvent{Token: env.Token}, nil

	case TypeChat:
		if !isTruthy(env.Message) {
			return nil, errMissingField
		}
		var msg string
		if err := json.Unmarshal(env.Message, &msg); err != nil {
			return nil, errMalformed
		}
		return ChatEvent{Message: msg}, nil

	case TypeLines:
		if !isTruthy(env.Lines) {
			return nil, errMissingField
		}
		return LinesEvent{Lines: env.Lines}, nil

	case TypeMouse:
		if len(env.X) == 0 || len(env.Y) == 0 {
			return nil, errMissingField
		}
		x, err := parseCoordinate(env.X)
		if err != nil {
			return nil, errBadCoordinate
		}
		y, err := parseCoordinate(env.Y)
		if err != nil {
			return nil, errBadCoordinate
		}
		return MouseEvent{X: x, Y: y}, nil

	case TypeTool:
		var tool string
		if err := json.Unmarshal(env.Tool, &tool); err != nil {
			return nil, errMissingField
		}
		if _, ok := validTools[tool]; !ok {
			return nil, errBadTool
		}
		return ToolEvent{Tool: tool}, nil

	default:
		return nil, errUnknownType
	}
}

// isTruthy reports whether a raw JSON value would count as present under the
// permissive presence check: null, "", 0, false, [] and {} all count as
// absent, matching the wire behavior clients already rely on.
func isTruthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return false
	case bytes.Equal(trimmed, []byte("null")),
		bytes.Equal(trimmed, []byte("false")),
		bytes.Equal(trimmed, []byte(`""`)),
		bytes.Equal(trimmed, []byte("0")),
		bytes.Equal(trimmed, []byte("[]")),
		bytes.Equal(trimmed, []byte("{}")):
		return false
	default:
		return true
	}
}

// parseCoordinate accepts a JSON number or a numeric string. Fractional
// numbers truncate toward zero; fractional strings are rejected.
func parseCoordinate(raw json.RawMessage) (int64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, errBadCoordinate
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		return strconv.ParseInt(s, 10, 64)
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return 0, err
	}
	return int64(f), nil
}

// ChatEntry is one transcript line, kept in arrival order for the lifetime
// of the process.
type ChatEntry struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// Outbound frames. Replay frames carry no user field; broadcast frames do.

type errorFrame struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

type presenceFrame struct {
	Type EventType `json:"type"`
	User string    `json:"user"`
}

type chatFrame struct {
	Type    EventType `json:"type"`
	User    string    `json:"user"`
	Message string    `json:"message"`
}

type linesFrame struct {
	Type  EventType       `json:"type"`
	User  string          `json:"user"`
	Lines json.RawMessage `json:"lines"`
}

type linesReplayFrame struct {
	Type  EventType       `json:"type"`
	Lines json.RawMessage `json:"lines"`
}

type chatHistoryFrame struct {
	Type EventType   `json:"type"`
	Chat []ChatEntry `json:"chat"`
}

type mouseFrame struct {
	Type EventType `json:"type"`
	User string    `json:"user"`
	X    int64     `json:"x"`
	Y    int64     `json:"y"`
}

type toolFrame struct {
	Type EventType `json:"type"`
	User string    `json:"user"`
	Tool string    `json:"tool"`
}

func marshalFrame(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Frames are plain structs over validated data; this cannot fail at
		// runtime short of a programming error.
		panic(err)
	}
	return data
}
