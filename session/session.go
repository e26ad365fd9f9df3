// Package session implements the agent session engine: per-session
// conversation state, stream reconciliation, tool-call tracking, permission
// negotiation, and the status state machine.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/chorus-core/claude"
	"github.com/zhubert/chorus-core/logger"
)

// InternalToolPrefix namespaces the tools this application itself exposes to
// the agent. Calls into this namespace never need user approval.
const InternalToolPrefix = "mcp__chorus__"

// ErrNotConnected is returned by Send when the session has no live connection.
var ErrNotConnected = errors.New("session not connected")

// autoEditTools are approved without prompting once auto-approval is on.
var autoEditTools = map[string]bool{
	"Edit":  true,
	"Write": true,
}

// alwaysAllowedTools never require a permission prompt.
var alwaysAllowedTools = map[string]bool{
	"ExitPlanMode": true,
}

var commandOutputRe = regexp.MustCompile(`(?s)<local-command-stdout>(.*?)</local-command-stdout>`)

// subAgent accumulates the transcript of a nested Task conversation. Its
// text and tool calls are tracked here and never linearized into the parent
// session's history.
type subAgent struct {
	text  string
	tools map[string]*ToolCall
}

// Session owns one conversation with one external agent process: connection
// lifecycle, structured history, streaming reconciliation, tool-call
// tracking, permission negotiation, and the Idle/Busy/NeedsInput state
// machine. All exported accessors are safe to call from any goroutine.
type Session struct {
	ID      string
	Name    string
	WorkDir string

	mu               sync.Mutex
	client           claude.Client
	connected        bool
	serverInfo       *claude.ServerInfo
	externalID       string
	status           Status
	history          []*ChatEntry
	currentAssistant *AssistantContent
	textBuffer       string
	needsNewEntry    bool
	pendingTools     map[string]*ToolCall
	subAgents        map[string]*subAgent
	pendingPrompts   []*PermissionRequest
	autoApproveEdits bool
	todos            *claude.TodoList
	pendingImages    []ImageAttachment
	interrupted      bool
	lastResult       string

	flowCancel context.CancelFunc
	flowDone   chan struct{}
	turnDone   chan struct{}
	turnOnce   *sync.Once

	observer          Observer
	permissionHandler PermissionHandler
	log               *slog.Logger
}

// Options configures a new Session.
type Options struct {
	// ID overrides the generated session ID (used when resuming a
	// persisted session). Leave empty for a fresh ID.
	ID string
	// Observer receives session events. Nil means no callbacks.
	Observer Observer
	// PermissionHandler resolves queued permission prompts. Nil means
	// prompts wait for a direct Respond call.
	PermissionHandler PermissionHandler
}

// New creates a session for the given client. The client's permission
// callback is wired to the session; Connect must still be called before Send.
func New(name, workDir string, client claude.Client, opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.New().String()[:8]
	}
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	s := &Session{
		ID:                id,
		Name:              name,
		WorkDir:           workDir,
		client:            client,
		status:            StatusIdle,
		needsNewEntry:     true,
		pendingTools:      make(map[string]*ToolCall),
		subAgents:         make(map[string]*subAgent),
		turnDone:          make(chan struct{}),
		observer:          obs,
		permissionHandler: opts.PermissionHandler,
		log:               logger.WithSession(id),
	}
	if client != nil {
		client.SetCanUseTool(s.handlePermission)
	}
	s.log.Debug("session created", "name", name, "workDir", workDir)
	return s
}

// -----------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------

// Connect establishes the connection to the agent process. resume carries an
// external session ID to pick up a previous conversation, or "" for a fresh
// one.
func (s *Session) Connect(ctx context.Context, resume string) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return ErrNotConnected
	}
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect session %s: %w", s.ID, err)
	}

	s.mu.Lock()
	s.connected = true
	if resume != "" {
		s.externalID = resume
	}
	s.serverInfo = client.ServerInfo()
	s.mu.Unlock()

	s.log.Info("session connected", "resume", resume)
	return nil
}

// Disconnect cancels any in-flight turn, waits for it to finish, and tears
// down the connection. Safe to call on an idle or never-connected session.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.interrupted = true
	cancel := s.flowCancel
	done := s.flowDone
	client := s.client
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if client != nil {
		_ = client.Interrupt(ctx)
		if err := client.Disconnect(); err != nil {
			s.log.Warn("disconnect failed", "error", err)
		}
	}

	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	s.log.Info("session disconnected")
	return nil
}

// Interrupt cancels the in-flight turn, waits for its flow to terminate,
// signals the agent process to stop, and forces the session back to Idle.
// Safe to call from any state; on an idle session it still signals the
// process.
func (s *Session) Interrupt(ctx context.Context) error {
	s.mu.Lock()
	s.interrupted = true
	cancel := s.flowCancel
	done := s.flowDone
	client := s.client
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	// Await the flow's actual termination before signalling the process,
	// so the process is never told to stop while the flow is still
	// mutating shared buffers.
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if client != nil {
		if err := client.Interrupt(ctx); err != nil {
			s.log.Warn("interrupt signal failed", "error", err)
		}
	}

	s.setStatus(StatusIdle)
	return nil
}

// -----------------------------------------------------------------------
// Sending
// -----------------------------------------------------------------------

// AttachImage attaches an image file to the next Send. The media type is
// guessed from the file extension, defaulting to image/png.
func (s *Session) AttachImage(path string) (*ImageAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}

	img := ImageAttachment{
		Path:      path,
		Filename:  filepath.Base(path),
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(data),
	}

	s.mu.Lock()
	s.pendingImages = append(s.pendingImages, img)
	s.mu.Unlock()
	return &img, nil
}

// ClearImages drops any images attached for the next Send.
func (s *Session) ClearImages() {
	s.mu.Lock()
	s.pendingImages = nil
	s.mu.Unlock()
}

// Send dispatches a prompt and starts consuming the response concurrently.
// It returns immediately; progress is reported via the observer.
//
// Send may be called while a previous turn is still in flight. Each call
// starts an independent flow; history stays memory-safe under the session
// mutex, but the interleaving of two live flows is unspecified.
func (s *Session) Send(prompt string) error {
	return s.SendAs(prompt, "")
}

// SendAs is Send with a separate display text: displayAs is what history and
// the observer show, while the full prompt goes to the agent. Used for
// slash-command expansions and cross-session messages.
func (s *Session) SendAs(prompt, displayAs string) error {
	s.mu.Lock()
	if s.client == nil || !s.connected {
		s.mu.Unlock()
		return ErrNotConnected
	}

	display := displayAs
	if display == "" {
		display = prompt
	}
	images := s.pendingImages
	s.pendingImages = nil

	s.history = append(s.history, &ChatEntry{
		Role: RoleUser,
		User: &UserContent{Text: display, Images: images},
	})

	// Reset per-turn accumulators
	s.currentAssistant = nil
	s.textBuffer = ""
	s.needsNewEntry = true
	s.interrupted = false
	s.turnDone = make(chan struct{})
	s.turnOnce = new(sync.Once)

	flowCtx, cancel := context.WithCancel(context.Background())
	s.flowCancel = cancel
	done := make(chan struct{})
	s.flowDone = done

	client := s.client
	obs := s.observer
	s.mu.Unlock()

	obs.OnPromptSent(s, display, images)
	s.setStatus(StatusBusy)

	content := claude.TextContent(prompt)
	for _, img := range images {
		content = append(content, claude.ContentBlock{
			Type: claude.ContentTypeImage,
			Source: &claude.ImageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.Data,
			},
		})
	}

	go s.processResponse(flowCtx, client, content, done)
	return nil
}

// WaitForCompletion blocks until the current turn completes, returning the
// final result text. ok is false on timeout or context cancellation; neither
// is an error. Used by cross-session messaging.
func (s *Session) WaitForCompletion(ctx context.Context, timeout time.Duration) (result string, ok bool) {
	s.mu.Lock()
	ch := s.turnDone
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		s.mu.Lock()
		result = s.lastResult
		s.mu.Unlock()
		return result, true
	case <-timer.C:
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// -----------------------------------------------------------------------
// Response processing
// -----------------------------------------------------------------------

// processResponse consumes one turn's stream. Its cleanup runs
// unconditionally: flush pending text, force Idle, report completion, and
// release the turn-completion signal so nothing can block forever on a dead
// or interrupted turn.
func (s *Session) processResponse(ctx context.Context, client claude.Client, content []claude.ContentBlock, done chan struct{}) {
	completed := false
	defer func() {
		s.mu.Lock()
		flushed := s.flushTextLocked()
		obs := s.observer
		s.mu.Unlock()
		if flushed {
			obs.OnMessageUpdated(s)
		}
		s.setStatus(StatusIdle)
		if !completed {
			obs.OnComplete(s, nil)
		}
		s.signalTurnDone()
		close(done)
	}()

	if err := client.Query(ctx, content); err != nil {
		s.reportStreamFailure(err)
		return
	}

	stream := client.ReceiveResponse()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-stream:
			if !open {
				return
			}
			switch m := msg.(type) {
			case claude.TextDelta:
				s.handleTextDelta(m)
			case claude.ToolUseMessage:
				s.handleToolUse(m)
			case claude.ToolResultMessage:
				s.handleToolResult(m)
			case claude.UserTextMessage:
				s.handleUserText(m)
			case claude.SystemMessage:
				s.mu.Lock()
				obs := s.observer
				s.mu.Unlock()
				obs.OnSystemMessage(s, m)
			case claude.ResultMessage:
				s.mu.Lock()
				s.flushTextLocked()
				s.externalID = m.SessionID
				s.lastResult = m.Result
				obs := s.observer
				s.mu.Unlock()

				result := m.Result
				obs.OnComplete(s, &result)
				completed = true
				s.log.Debug("turn complete", "externalID", m.SessionID, "numTurns", m.NumTurns, "durationMS", m.DurationMS)
				return
			case claude.StreamError:
				s.reportStreamFailure(m.Err)
				return
			}
		}
	}
}

// reportStreamFailure classifies a turn failure: connection loss gets its
// own callback so the consumer can reconnect, interrupt-triggered errors are
// suppressed, and everything else surfaces via OnError without tearing the
// session down.
func (s *Session) reportStreamFailure(err error) {
	s.mu.Lock()
	interrupted := s.interrupted
	obs := s.observer
	s.mu.Unlock()

	if errors.Is(err, claude.ErrConnectionLost) {
		s.log.Warn("connection lost", "error", err)
		obs.OnConnectionLost(s)
		return
	}
	if interrupted {
		s.log.Info("suppressed error after interrupt", "error", err)
		return
	}
	s.log.Error("turn processing failed", "error", err)
	obs.OnError(s, "Response failed", err)
}

func (s *Session) handleTextDelta(m claude.TextDelta) {
	s.mu.Lock()

	// Text belonging to an active sub-agent accumulates in its transcript,
	// not in history.
	if m.ParentToolID != "" {
		if sa, exists := s.subAgents[m.ParentToolID]; exists {
			sa.text += m.Text
			s.mu.Unlock()
			return
		}
	}

	// The first delta after a tool use starts a new entry regardless of the
	// stream's own segment flag.
	newSegment := m.NewSegment || s.needsNewEntry
	s.needsNewEntry = false
	if newSegment {
		s.flushTextLocked()
		s.currentAssistant = nil
	}

	if s.currentAssistant == nil {
		s.currentAssistant = &AssistantContent{}
		s.history = append(s.history, &ChatEntry{Role: RoleAssistant, Assistant: s.currentAssistant})
		s.textBuffer = ""
	}

	s.textBuffer += m.Text
	s.currentAssistant.Text = s.textBuffer
	obs := s.observer
	s.mu.Unlock()

	obs.OnMessageUpdated(s)
	obs.OnTextChunk(s, m.Text, newSegment, m.ParentToolID)
}

func (s *Session) handleToolUse(m claude.ToolUseMessage) {
	s.mu.Lock()
	flushed := s.flushTextLocked()
	s.needsNewEntry = true
	obs := s.observer

	// A tool use nested under an active sub-agent stays in its accumulator.
	if m.ParentToolID != "" {
		if sa, exists := s.subAgents[m.ParentToolID]; exists {
			sa.tools[m.ID] = &ToolCall{ID: m.ID, Name: m.Name, Input: m.Input}
			s.mu.Unlock()
			if flushed {
				obs.OnMessageUpdated(s)
			}
			return
		}
	}

	// TodoWrite never reaches history: it replaces the todo side channel.
	if m.Name == "TodoWrite" {
		todos, err := claude.ParseTodoWriteInput(m.Input)
		if err != nil {
			s.mu.Unlock()
			s.log.Warn("unparseable TodoWrite input", "error", err)
			return
		}
		s.todos = todos
		s.mu.Unlock()
		if flushed {
			obs.OnMessageUpdated(s)
		}
		obs.OnTodosUpdated(s)
		return
	}

	tool := &ToolCall{ID: m.ID, Name: m.Name, Input: m.Input}

	// Task spawns a sub-agent whose nested events are captured separately.
	if m.Name == "Task" {
		s.subAgents[m.ID] = &subAgent{tools: make(map[string]*ToolCall)}
	}
	s.pendingTools[m.ID] = tool

	if s.currentAssistant == nil {
		s.currentAssistant = &AssistantContent{}
		s.history = append(s.history, &ChatEntry{Role: RoleAssistant, Assistant: s.currentAssistant})
		s.textBuffer = ""
	}
	s.currentAssistant.ToolCalls = append(s.currentAssistant.ToolCalls, tool)
	s.mu.Unlock()

	obs.OnMessageUpdated(s)
	obs.OnToolUse(s, tool)
}

func (s *Session) handleToolResult(m claude.ToolResultMessage) {
	s.mu.Lock()
	obs := s.observer

	tool, known := s.pendingTools[m.ToolUseID]
	if known {
		delete(s.pendingTools, m.ToolUseID)
		tool.Result = m.Content
		tool.HasResult = true
		tool.IsError = m.IsError
	} else {
		// A result for a tool nested under a sub-agent lands in that
		// accumulator. Anything else is a benign no-op.
		for _, sa := range s.subAgents {
			if nested, found := sa.tools[m.ToolUseID]; found {
				nested.Result = m.Content
				nested.HasResult = true
				nested.IsError = m.IsError
				break
			}
		}
	}

	// If this result closes a Task, its sub-agent is done.
	delete(s.subAgents, m.ToolUseID)
	s.mu.Unlock()

	if known {
		obs.OnMessageUpdated(s)
		obs.OnToolResult(s, tool)
	}
}

// handleUserText surfaces local command output embedded in an echoed user
// message. The output is a side channel, never appended to history.
func (s *Session) handleUserText(m claude.UserTextMessage) {
	match := commandOutputRe.FindStringSubmatch(m.Text)
	if match == nil {
		return
	}
	s.mu.Lock()
	obs := s.observer
	s.mu.Unlock()
	obs.OnCommandOutput(s, strings.TrimSpace(match[1]))
}

// flushTextLocked commits the streaming text buffer to the open assistant
// entry. Caller must hold mu. Returns true if anything was flushed.
func (s *Session) flushTextLocked() bool {
	if s.currentAssistant != nil && s.textBuffer != "" {
		s.currentAssistant.Text = s.textBuffer
		s.textBuffer = ""
		return true
	}
	return false
}

func (s *Session) signalTurnDone() {
	s.mu.Lock()
	once := s.turnOnce
	ch := s.turnDone
	s.mu.Unlock()
	if once != nil {
		once.Do(func() { close(ch) })
	}
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	if s.status == status {
		s.mu.Unlock()
		return
	}
	s.status = status
	obs := s.observer
	s.mu.Unlock()
	obs.OnStatusChanged(s)
}

// -----------------------------------------------------------------------
// Permissions
// -----------------------------------------------------------------------

// handlePermission is the client's CanUseTool callback. It blocks the
// requesting turn, and only that turn, until a decision is available.
func (s *Session) handlePermission(ctx context.Context, toolName string, toolInput json.RawMessage) (claude.PermissionResult, error) {
	s.log.Info("permission requested", "tool", toolName)

	if toolName == "AskUserQuestion" {
		return s.handleAskUserQuestion(ctx, toolInput)
	}

	if alwaysAllowedTools[toolName] || strings.HasPrefix(toolName, InternalToolPrefix) {
		return claude.Allow(), nil
	}

	s.mu.Lock()
	autoEdits := s.autoApproveEdits
	s.mu.Unlock()
	if autoEdits && autoEditTools[toolName] {
		s.log.Info("auto-approved edit tool", "tool", toolName)
		return claude.Allow(), nil
	}

	req := NewPermissionRequest(toolName, toolInput)
	result := s.resolvePrompt(ctx, req)
	s.log.Info("permission resolved", "tool", toolName, "result", result)

	switch {
	case result == ResultAllowAll:
		s.mu.Lock()
		s.autoApproveEdits = true
		obs := s.observer
		s.mu.Unlock()
		obs.OnAutoEditChanged(s)
		return claude.Allow(), nil
	case result == ResultAllow:
		return claude.Allow(), nil
	case strings.HasPrefix(result, ResultInsteadPrefix):
		// The user supplied a replacement instruction: deny, carry the
		// message, and abandon the current turn.
		return claude.DenyWithInterrupt(strings.TrimPrefix(result, ResultInsteadPrefix)), nil
	default:
		return claude.Deny("User denied permission"), nil
	}
}

// handleAskUserQuestion reuses the permission queue for the multi-question
// clarification tool. The resolution carries a structured answer map; an
// empty or missing answer set is a denial.
func (s *Session) handleAskUserQuestion(ctx context.Context, toolInput json.RawMessage) (claude.PermissionResult, error) {
	var parsed struct {
		Questions []json.RawMessage `json:"questions"`
	}
	_ = json.Unmarshal(toolInput, &parsed)
	if len(parsed.Questions) == 0 {
		return claude.AllowWithInput(toolInput), nil
	}

	req := NewPermissionRequest("AskUserQuestion", toolInput)
	result := s.resolvePrompt(ctx, req)

	answers := req.Answers()
	if result != ResultAllow || len(answers) == 0 {
		return claude.Deny("User cancelled questions"), nil
	}

	updated, err := json.Marshal(struct {
		Questions []json.RawMessage `json:"questions"`
		Answers   map[string]string `json:"answers"`
	}{Questions: parsed.Questions, Answers: answers})
	if err != nil {
		return claude.Deny("User cancelled questions"), nil
	}
	return claude.AllowWithInput(updated), nil
}

// resolvePrompt queues a permission request, moves the session to
// NeedsInput, and blocks until the registered handler or a direct Respond
// resolves it, whichever comes first. The request is always dequeued and the
// session returned to Busy before the decision proceeds.
func (s *Session) resolvePrompt(ctx context.Context, req *PermissionRequest) string {
	s.mu.Lock()
	s.pendingPrompts = append(s.pendingPrompts, req)
	obs := s.observer
	handler := s.permissionHandler
	s.mu.Unlock()

	obs.OnPromptAdded(s, req)
	s.setStatus(StatusNeedsInput)

	if handler != nil {
		go func() {
			result, err := handler(ctx, s, req)
			if err != nil {
				req.Respond(ResultDeny)
				return
			}
			req.Respond(result)
		}()
	}

	result, err := req.Wait(ctx)
	if err != nil {
		result = ResultDeny
	}

	s.mu.Lock()
	for i, p := range s.pendingPrompts {
		if p == req {
			s.pendingPrompts = append(s.pendingPrompts[:i], s.pendingPrompts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.setStatus(StatusBusy)
	return result
}

// -----------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------

// Status returns the current lifecycle state. Thread-safe.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ExternalID returns the session identifier assigned by the agent process,
// or "" before the first completed turn. Thread-safe.
func (s *Session) ExternalID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.externalID
}

// Connected reports whether Connect has succeeded without a Disconnect. Thread-safe.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// ServerInfo returns the agent process info captured at connect, or nil. Thread-safe.
func (s *Session) ServerInfo() *claude.ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverInfo
}

// Messages returns a snapshot of the conversation history. The slice is a
// copy; entries are shared and must be treated as read-only. Thread-safe.
func (s *Session) Messages() []*ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]*ChatEntry, len(s.history))
	copy(msgs, s.history)
	return msgs
}

// MessageCount returns the number of history entries. Thread-safe.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// PendingPrompts returns a snapshot of the queued permission requests. Thread-safe.
func (s *Session) PendingPrompts() []*PermissionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	prompts := make([]*PermissionRequest, len(s.pendingPrompts))
	copy(prompts, s.pendingPrompts)
	return prompts
}

// PendingToolIDs returns the IDs of tool calls still awaiting results. Thread-safe.
func (s *Session) PendingToolIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pendingTools))
	for id := range s.pendingTools {
		ids = append(ids, id)
	}
	return ids
}

// HasPendingTool reports whether a tool call with the given ID is still
// awaiting its result. Thread-safe.
func (s *Session) HasPendingTool(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.pendingTools[id]
	return exists
}

// SubAgentTranscript returns the accumulated text for an active Task
// sub-agent, and whether that sub-agent exists. Thread-safe.
func (s *Session) SubAgentTranscript(toolID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sa, exists := s.subAgents[toolID]
	if !exists {
		return "", false
	}
	return sa.text, true
}

// Todos returns the current todo list side channel, or nil. Thread-safe.
func (s *Session) Todos() *claude.TodoList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todos
}

// AutoApproveEdits reports whether edit-class tools are auto-approved. Thread-safe.
func (s *Session) AutoApproveEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoApproveEdits
}

// SetAutoApproveEdits toggles edit auto-approval. Thread-safe.
func (s *Session) SetAutoApproveEdits(enabled bool) {
	s.mu.Lock()
	if s.autoApproveEdits == enabled {
		s.mu.Unlock()
		return
	}
	s.autoApproveEdits = enabled
	obs := s.observer
	s.mu.Unlock()
	obs.OnAutoEditChanged(s)
}

// PendingImages returns a snapshot of the images attached for the next Send. Thread-safe.
func (s *Session) PendingImages() []ImageAttachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	images := make([]ImageAttachment, len(s.pendingImages))
	copy(images, s.pendingImages)
	return images
}
