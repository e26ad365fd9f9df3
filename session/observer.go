package session

import (
	"context"

	"github.com/zhubert/chorus-core/claude"
)

// Observer receives per-session events. All methods take the session as the
// first argument so one observer can serve many sessions. Implementations
// must not mutate session state from inside a callback; use the session's
// exported methods instead.
//
// Embed NopObserver to implement only the callbacks you care about.
type Observer interface {
	// OnStatusChanged fires when the session moves between Idle, Busy, and NeedsInput.
	OnStatusChanged(s *Session)
	// OnAutoEditChanged fires when edit auto-approval is toggled.
	OnAutoEditChanged(s *Session)
	// OnMessageUpdated fires when conversation history content changes.
	OnMessageUpdated(s *Session)
	// OnPromptAdded fires when a permission prompt is queued.
	OnPromptAdded(s *Session, req *PermissionRequest)
	// OnError fires for turn-processing failures. The session survives.
	OnError(s *Session, message string, err error)
	// OnConnectionLost fires when the agent process died or its transport
	// closed, so the consumer can reconnect. Distinct from OnError.
	OnConnectionLost(s *Session)
	// OnComplete fires exactly once per turn. result is nil on failure or
	// cancellation paths.
	OnComplete(s *Session, result *string)
	// OnTodosUpdated fires when TodoWrite replaces the todo list.
	OnTodosUpdated(s *Session)
	// OnTextChunk fires for each streaming text delta.
	OnTextChunk(s *Session, text string, newSegment bool, parentToolID string)
	// OnToolUse fires when a tool invocation starts.
	OnToolUse(s *Session, tool *ToolCall)
	// OnToolResult fires when a tool result arrives for a known call.
	OnToolResult(s *Session, tool *ToolCall)
	// OnSystemMessage fires for out-of-band agent notifications.
	OnSystemMessage(s *Session, msg claude.SystemMessage)
	// OnCommandOutput fires for local command output extracted from a user message.
	OnCommandOutput(s *Session, output string)
	// OnPromptSent fires when a user prompt is dispatched.
	OnPromptSent(s *Session, text string, images []ImageAttachment)
}

// PermissionHandler resolves a queued permission request, typically by
// showing a prompt. It returns one of the Result* values (or an
// "instead:<message>" string). Only the requesting session's turn blocks on
// it. Returning an error counts as a denial.
type PermissionHandler func(ctx context.Context, s *Session, req *PermissionRequest) (string, error)

// NopObserver implements Observer with no-ops. Embed it to pick out the
// callbacks a consumer needs.
type NopObserver struct{}

func (NopObserver) OnStatusChanged(*Session) {}
func (NopObserver) OnAutoEditChanged(*Session) {}
func (NopObserver) OnMessageUpdated(*Session) {}
func (NopObserver) OnPromptAdded(*Session, *PermissionRequest) {}
func (NopObserver) OnError(*Session, string, error) {}
func (NopObserver) OnConnectionLost(*Session) {}
func (NopObserver) OnComplete(*Session, *string) {}
func (NopObserver) OnTodosUpdated(*Session) {}
func (NopObserver) OnTextChunk(*Session, string, bool, string) {}
func (NopObserver) OnToolUse(*Session, *ToolCall) {}
func (NopObserver) OnToolResult(*Session, *ToolCall) {}
func (NopObserver) OnSystemMessage(*Session, claude.SystemMessage) {}
func (NopObserver) OnCommandOutput(*Session, string) {}
func (NopObserver) OnPromptSent(*Session, string, []ImageAttachment) {}

// Ensure NopObserver satisfies Observer at compile time.
var _ Observer = NopObserver{}
