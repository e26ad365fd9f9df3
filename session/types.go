package session

import (
	"encoding/json"
)

// Status is the lifecycle state of a session between and during turns.
type Status string

const (
	// StatusIdle means no turn is in flight.
	StatusIdle Status = "idle"
	// StatusBusy means a turn is in flight and the response stream is being consumed.
	StatusBusy Status = "busy"
	// StatusNeedsInput means a permission prompt is blocking the in-flight turn.
	StatusNeedsInput Status = "needs_input"
)

// Role identifies which side of the conversation a chat entry belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageAttachment is an image attached to an outgoing user message.
type ImageAttachment struct {
	Path      string
	Filename  string
	MediaType string
	Data      string // base64 encoded
}

// UserContent is the payload of a user chat entry.
type UserContent struct {
	Text   string
	Images []ImageAttachment
}

// ToolCall is a single tool invocation within an assistant turn. Result is
// set exactly once, by the matching tool-result message; HasResult stays
// false if the turn ends mid-call.
type ToolCall struct {
	ID        string
	Name      string
	Input     json.RawMessage
	Result    string
	HasResult bool
	IsError   bool
}

// AssistantContent is the payload of an assistant chat entry. Text
// accumulates while the response streams; ToolCalls are appended in arrival
// order. A tool use closes the entry, so the relative ordering of text
// segments and tool calls is preserved by entry boundaries.
type AssistantContent struct {
	Text      string
	ToolCalls []*ToolCall
}

// ChatEntry is one item in a session's conversation history. Exactly one of
// User or Assistant is set, matching Role. History is append-only; only the
// last entry mutates while a response streams.
type ChatEntry struct {
	Role      Role
	User      *UserContent
	Assistant *AssistantContent
}
