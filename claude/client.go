package claude

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrConnectionLost indicates the agent process died or its transport closed.
// Stream consumers check for it with errors.Is to distinguish reconnectable
// failures from ordinary turn errors.
var ErrConnectionLost = errors.New("connection to agent lost")

// ContentType represents the type of content in a message block
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentBlock represents a single piece of content in a message
type ContentBlock struct {
	Type   ContentType  `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// ImageSource represents an embedded image
type ImageSource struct {
	Type      string `json:"type"`       // "base64"
	MediaType string `json:"media_type"` // "image/png", "image/jpeg", etc.
	Data      string `json:"data"`       // base64 encoded image data
}

// TextContent creates a text-only content block slice for convenience
func TextContent(text string) []ContentBlock {
	return []ContentBlock{{Type: ContentTypeText, Text: text}}
}

// GetDisplayContent returns the text representation of content blocks for display
func GetDisplayContent(blocks []ContentBlock) string {
	var parts []string
	for _, block := range blocks {
		switch block.Type {
		case ContentTypeText:
			parts = append(parts, block.Text)
		case ContentTypeImage:
			parts = append(parts, "[Image]")
		}
	}
	return strings.Join(parts, "\n")
}

// ServerInfo describes the agent process behind a connection.
type ServerInfo struct {
	Version string
	Model   string
	Tools   []string
}

// PermissionBehavior is the agent-facing outcome of a permission negotiation.
type PermissionBehavior string

const (
	PermissionAllow PermissionBehavior = "allow"
	PermissionDeny  PermissionBehavior = "deny"
)

// PermissionResult is returned to the agent process when it asks to run a tool.
// Deny results may carry a replacement message and an interrupt request;
// allow results may carry updated tool input.
type PermissionResult struct {
	Behavior     PermissionBehavior
	Message      string
	Interrupt    bool
	UpdatedInput json.RawMessage
}

// Allow grants the tool use unchanged.
func Allow() PermissionResult {
	return PermissionResult{Behavior: PermissionAllow}
}

// AllowWithInput grants the tool use with replacement input.
func AllowWithInput(input json.RawMessage) PermissionResult {
	return PermissionResult{Behavior: PermissionAllow, UpdatedInput: input}
}

// Deny refuses the tool use with an explanatory message.
func Deny(message string) PermissionResult {
	return PermissionResult{Behavior: PermissionDeny, Message: message}
}

// DenyWithInterrupt refuses the tool use, carries a replacement instruction,
// and asks the agent to abandon the current turn.
func DenyWithInterrupt(message string) PermissionResult {
	return PermissionResult{Behavior: PermissionDeny, Message: message, Interrupt: true}
}

// CanUseToolFunc decides whether the agent may run a tool. The call blocks
// until a decision is available; only the requesting session's turn waits.
type CanUseToolFunc func(ctx context.Context, toolName string, toolInput json.RawMessage) (PermissionResult, error)

// Client is the connection to one external agent process. One session owns
// one Client for its whole lifetime.
//
// Query starts a turn and returns immediately; the resulting messages arrive
// on the channel returned by ReceiveResponse. The channel is closed when the
// turn ends. Interrupt asks the process to abandon the in-flight turn.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error
	SetCanUseTool(fn CanUseToolFunc)
	Query(ctx context.Context, content []ContentBlock) error
	ReceiveResponse() <-chan StreamMessage
	Interrupt(ctx context.Context) error
	ServerInfo() *ServerInfo
}
