package claude

import "encoding/json"

// StreamMessage is a single typed message from the agent process while a turn
// is in flight. The set of variants is closed: the unexported marker method
// keeps implementations inside this package so consumers can switch over the
// full set without a default case for unknown types.
type StreamMessage interface {
	streamMessage()
}

// TextDelta is a chunk of assistant text. NewSegment marks the start of a new
// assistant message block; ParentToolID is set when the text belongs to a
// nested sub-agent conversation rather than the top-level response.
type TextDelta struct {
	Text         string
	NewSegment   bool
	ParentToolID string
}

// ToolUseMessage announces that the agent is invoking a tool.
type ToolUseMessage struct {
	ID           string
	Name         string
	Input        json.RawMessage
	ParentToolID string
}

// ToolResultMessage carries the outcome of an earlier tool invocation.
type ToolResultMessage struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// UserTextMessage is an echoed user-side message. Local command output is
// embedded between <local-command-stdout> delimiters inside Text.
type UserTextMessage struct {
	Text string
}

// SystemMessage is an out-of-band notification from the agent process
// (init info, skill loads, compaction notices).
type SystemMessage struct {
	Subtype string
	Data    json.RawMessage
}

// ResultMessage terminates a turn. SessionID is the external session
// identifier assigned by the agent process.
type ResultMessage struct {
	SessionID    string
	Result       string
	IsError      bool
	NumTurns     int
	DurationMS   int64
	TotalCostUSD float64
}

// StreamError reports a transport or processing failure. It terminates the
// turn; wrap ErrConnectionLost in Err when the process itself died.
type StreamError struct {
	Err error
}

func (TextDelta) streamMessage() {}
func (ToolUseMessage) streamMessage() {}
func (ToolResultMessage) streamMessage() {}
func (UserTextMessage) streamMessage() {}
func (SystemMessage) streamMessage() {}
func (ResultMessage) streamMessage() {}
func (StreamError) streamMessage() {}
