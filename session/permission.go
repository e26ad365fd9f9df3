package session

import (
	"context"
	"encoding/json"
	"sync"
)

// Permission results accepted by PermissionRequest.Respond.
const (
	ResultAllow    = "allow"
	ResultAllowAll = "allow_all"
	ResultDeny     = "deny"
	// ResultInsteadPrefix prefixes a deny that carries a replacement
	// instruction, e.g. "instead:run the tests first".
	ResultInsteadPrefix = "instead:"
)

// PermissionRequest is a pending tool-approval prompt. It bridges the
// blocking permission callback from the agent process with an asynchronous
// resolver: a UI handler or a direct Respond call, whichever comes first.
// Resolution is one-shot; later attempts are no-ops.
type PermissionRequest struct {
	ToolName  string
	ToolInput json.RawMessage

	once    sync.Once
	done    chan struct{}
	result  string
	answers map[string]string
}

// NewPermissionRequest creates an unresolved permission request.
func NewPermissionRequest(toolName string, toolInput json.RawMessage) *PermissionRequest {
	return &PermissionRequest{
		ToolName:  toolName,
		ToolInput: toolInput,
		done:      make(chan struct{}),
	}
}

// Respond resolves the request. The first resolution wins; subsequent calls
// are no-ops. Safe to call concurrently with Wait.
func (r *PermissionRequest) Respond(result string) {
	r.once.Do(func() {
		r.result = result
		close(r.done)
	})
}

// RespondWithAnswers resolves an AskUserQuestion request with a structured
// answer map. An empty map is treated as a denial by the session.
func (r *PermissionRequest) RespondWithAnswers(answers map[string]string) {
	r.once.Do(func() {
		r.result = ResultAllow
		r.answers = answers
		close(r.done)
	})
}

// Wait blocks until the request is resolved or ctx is cancelled.
// Cancellation resolves the request as a denial so a racing Respond no-ops.
func (r *PermissionRequest) Wait(ctx context.Context) (string, error) {
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		r.Respond(ResultDeny)
		return ResultDeny, ctx.Err()
	}
}

// Resolved reports whether the request has been resolved.
func (r *PermissionRequest) Resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Result returns the resolution, or "" if the request is still pending.
func (r *PermissionRequest) Result() string {
	if !r.Resolved() {
		return ""
	}
	return r.result
}

// Answers returns the structured answers for an AskUserQuestion request,
// or nil if none were provided.
func (r *PermissionRequest) Answers() map[string]string {
	if !r.Resolved() {
		return nil
	}
	return r.answers
}
