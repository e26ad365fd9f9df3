package claude

import (
	"context"
	"sync"
)

// MockClient is a test double for Client that doesn't spawn real processes.
// It lets tests queue stream messages to be played back by Query, emit
// messages mid-flight, simulate permission requests, and verify the content
// sent to the agent.
type MockClient struct {
	mu sync.Mutex

	// State
	connected  bool
	canUseTool CanUseToolFunc
	serverInfo *ServerInfo

	// Message queue - played back on the stream when Query is called
	queue      []StreamMessage
	stream     chan StreamMessage
	streamOpen bool

	// Recorded calls
	sent       [][]ContentBlock
	interrupts int

	// Injected failures
	ConnectErr error
	QueryErr   error

	// Callback for test assertions
	OnQuery func(content []ContentBlock)
}

// NewMockClient creates a mock client for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		serverInfo: &ServerInfo{Version: "mock", Model: "mock-model"},
	}
}

// QueueMessages queues stream messages to be played back by the next Query.
// Playback stops after a ResultMessage or StreamError, which also closes the
// stream. A queue without a terminal message leaves the stream open so tests
// can simulate an in-flight turn.
func (m *MockClient) QueueMessages(msgs ...StreamMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, msgs...)
}

// ClearQueue drops any queued messages.
func (m *MockClient) ClearQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
}

// Connect implements Client.
func (m *MockClient) Connect(ctx context.Context) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

// Disconnect implements Client.
func (m *MockClient) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.closeStreamLocked()
	return nil
}

// Connected reports whether Connect has been called without a Disconnect.
func (m *MockClient) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SetCanUseTool implements Client.
func (m *MockClient) SetCanUseTool(fn CanUseToolFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canUseTool = fn
}

// Query implements Client. It records the sent content and starts playing
// back the queued messages on a fresh stream.
func (m *MockClient) Query(ctx context.Context, content []ContentBlock) error {
	if m.QueryErr != nil {
		return m.QueryErr
	}

	m.mu.Lock()
	m.sent = append(m.sent, content)

	ch := make(chan StreamMessage, 128)
	m.stream = ch
	m.streamOpen = true

	queue := make([]StreamMessage, len(m.queue))
	copy(queue, m.queue)
	m.queue = nil

	onQuery := m.OnQuery
	m.mu.Unlock()

	if onQuery != nil {
		onQuery(content)
	}

	go func() {
		for _, msg := range queue {
			select {
			case <-ctx.Done():
				return
			case ch <- msg:
			}

			switch msg.(type) {
			case ResultMessage, StreamError:
				m.closeStream(ch)
				return
			}
		}
		// No terminal message queued: leave the stream open so the turn
		// stays in flight until the test emits more or interrupts.
	}()

	return nil
}

// ReceiveResponse implements Client.
func (m *MockClient) ReceiveResponse() <-chan StreamMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream
}

// Emit sends a message on the live stream (for tests driving a turn by hand).
// A ResultMessage or StreamError also closes the stream.
func (m *MockClient) Emit(msg StreamMessage) {
	m.mu.Lock()
	ch := m.stream
	open := m.streamOpen
	m.mu.Unlock()
	if ch == nil || !open {
		return
	}
	ch <- msg
	switch msg.(type) {
	case ResultMessage, StreamError:
		m.closeStream(ch)
	}
}

// RequestPermission invokes the registered permission callback, blocking
// until a decision is available. Tests call this from a goroutine to
// simulate the agent asking to run a tool.
func (m *MockClient) RequestPermission(ctx context.Context, toolName string, toolInput []byte) (PermissionResult, error) {
	m.mu.Lock()
	fn := m.canUseTool
	m.mu.Unlock()
	if fn == nil {
		return Deny("no permission callback registered"), nil
	}
	return fn(ctx, toolName, toolInput)
}

// Interrupt implements Client. It records the call and closes the live
// stream so an in-flight turn ends.
func (m *MockClient) Interrupt(ctx context.Context) error {
	m.mu.Lock()
	m.interrupts++
	ch := m.stream
	m.mu.Unlock()
	if ch != nil {
		m.closeStream(ch)
	}
	return nil
}

// InterruptCount returns how many times Interrupt was called.
func (m *MockClient) InterruptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interrupts
}

// Sent returns a copy of the content blocks sent via Query.
func (m *MockClient) Sent() [][]ContentBlock {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := make([][]ContentBlock, len(m.sent))
	copy(sent, m.sent)
	return sent
}

// ServerInfo implements Client.
func (m *MockClient) ServerInfo() *ServerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serverInfo
}

// SetServerInfo overrides the reported server info.
func (m *MockClient) SetServerInfo(info *ServerInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serverInfo = info
}

func (m *MockClient) closeStream(ch chan StreamMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == ch {
		m.closeStreamLocked()
	}
}

// closeStreamLocked closes the live stream. Caller must hold mu.
func (m *MockClient) closeStreamLocked() {
	if m.stream != nil && m.streamOpen {
		close(m.stream)
		m.streamOpen = false
	}
}

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
