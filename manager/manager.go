// Package manager coordinates the collection of live sessions: creation,
// resumption, the active-session pointer, shutdown, and persistence of
// session records and transcripts.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/chorus-core/claude"
	"github.com/zhubert/chorus-core/config"
	"github.com/zhubert/chorus-core/logger"
	"github.com/zhubert/chorus-core/session"
)

// Observer receives manager-level events. Session-level events go to the
// session.Observer passed in Options.
type Observer interface {
	// OnSessionCreated fires after a session is registered.
	OnSessionCreated(s *session.Session)
	// OnSessionSwitched fires when the active session changes. old is nil
	// when there was no previous active session.
	OnSessionSwitched(newSession, old *session.Session)
	// OnSessionClosed fires after a session is removed. messageCount is the
	// history length at close time.
	OnSessionClosed(id string, messageCount int)
}

// NopObserver implements Observer with no-ops.
type NopObserver struct{}

func (NopObserver) OnSessionCreated(*session.Session) {}
func (NopObserver) OnSessionSwitched(*session.Session, *session.Session) {}
func (NopObserver) OnSessionClosed(string, int) {}

var _ Observer = NopObserver{}

// ClientFactory builds the agent client for a new session. resume carries an
// external session ID for conversation pickup, or "".
type ClientFactory func(workDir, resume string) claude.Client

// Options configures a SessionManager.
type Options struct {
	// Observer receives manager-level events. Nil means no callbacks.
	Observer Observer
	// SessionObserver is attached to every session the manager creates.
	SessionObserver session.Observer
	// PermissionHandler is attached to every session the manager creates.
	PermissionHandler session.PermissionHandler
	// Config persists session records and transcripts. Nil disables
	// persistence.
	Config *config.Config
}

// SessionManager owns the set of live sessions and the active-session
// pointer. All methods are safe for concurrent use.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	activeID string

	factory           ClientFactory
	observer          Observer
	sessionObserver   session.Observer
	permissionHandler session.PermissionHandler
	cfg               *config.Config
	log               *slog.Logger
}

// New creates a session manager. factory must not be nil.
func New(factory ClientFactory, opts Options) *SessionManager {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	return &SessionManager{
		sessions:          make(map[string]*session.Session),
		factory:           factory,
		observer:          obs,
		sessionObserver:   opts.SessionObserver,
		permissionHandler: opts.PermissionHandler,
		cfg:               opts.Config,
		log:               logger.WithComponent("manager"),
	}
}

// CreateOptions tunes session creation.
type CreateOptions struct {
	// Resume carries an external session ID to pick up a previous
	// conversation.
	Resume string
	// NoSwitch leaves the active-session pointer alone (unless this is the
	// first session, which always becomes active).
	NoSwitch bool
}

// Create builds, connects, and registers a new session. The new session
// becomes active unless NoSwitch is set; the first session always does.
func (m *SessionManager) Create(ctx context.Context, name, workDir string, opts CreateOptions) (*session.Session, error) {
	client := m.factory(workDir, opts.Resume)
	s := session.New(name, workDir, client, session.Options{
		Observer:          m.sessionObserver,
		PermissionHandler: m.permissionHandler,
	})

	if err := s.Connect(ctx, opts.Resume); err != nil {
		return nil, fmt.Errorf("failed to create session %q: %w", name, err)
	}

	m.register(s, !opts.NoSwitch)
	m.persistRecord(s)
	m.log.Info("session created", "sessionID", s.ID, "name", name, "workDir", workDir)
	return s, nil
}

// CreateUnconnected builds and registers a session without connecting it.
// The caller connects later; Send fails until then.
func (m *SessionManager) CreateUnconnected(name, workDir string, switchTo bool) *session.Session {
	client := m.factory(workDir, "")
	s := session.New(name, workDir, client, session.Options{
		Observer:          m.sessionObserver,
		PermissionHandler: m.permissionHandler,
	})
	m.register(s, switchTo)
	m.persistRecord(s)
	return s
}

// Resume rebuilds a session from a persisted record: same internal ID,
// conversation pickup via the external ID, and history restored from the
// saved transcript.
func (m *SessionManager) Resume(ctx context.Context, record config.SessionRecord, switchTo bool) (*session.Session, error) {
	client := m.factory(record.WorkDir, record.ExternalID)
	s := session.New(record.Name, record.WorkDir, client, session.Options{
		ID:                record.ID,
		Observer:          m.sessionObserver,
		PermissionHandler: m.permissionHandler,
	})

	if err := s.Connect(ctx, record.ExternalID); err != nil {
		return nil, fmt.Errorf("failed to resume session %q: %w", record.Name, err)
	}

	if msgs, err := config.LoadSessionMessages(record.ID); err == nil && len(msgs) > 0 {
		s.LoadHistory(msgs)
	}

	m.register(s, switchTo)
	if m.cfg != nil {
		m.cfg.TouchSession(record.ID, time.Now())
		if err := m.cfg.Save(); err != nil {
			m.log.Warn("failed to save config", "error", err)
		}
	}
	m.log.Info("session resumed", "sessionID", s.ID, "externalID", record.ExternalID)
	return s, nil
}

// register adds the session to the set and optionally makes it active.
// Callbacks fire outside the lock.
func (m *SessionManager) register(s *session.Session, switchTo bool) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	first := len(m.sessions) == 1
	var old *session.Session
	switched := false
	if switchTo || first {
		old = m.sessions[m.activeID]
		m.activeID = s.ID
		switched = old != s
	}
	m.mu.Unlock()

	m.observer.OnSessionCreated(s)
	if switched {
		m.observer.OnSessionSwitched(s, old)
	}
}

func (m *SessionManager) persistRecord(s *session.Session) {
	if m.cfg == nil {
		return
	}
	now := time.Now()
	m.cfg.AddSession(config.SessionRecord{
		ID:         s.ID,
		Name:       s.Name,
		WorkDir:    s.WorkDir,
		ExternalID: s.ExternalID(),
		CreatedAt:  now,
		LastUsedAt: now,
	})
	if err := m.cfg.Save(); err != nil {
		m.log.Warn("failed to save config", "error", err)
	}
}

// Switch makes the given session active. Returns false for an unknown ID,
// leaving the active pointer unchanged.
func (m *SessionManager) Switch(id string) bool {
	m.mu.Lock()
	s, exists := m.sessions[id]
	if !exists {
		m.mu.Unlock()
		m.log.Warn("switch to unknown session", "sessionID", id)
		return false
	}
	if m.activeID == id {
		m.mu.Unlock()
		return true
	}
	old := m.sessions[m.activeID]
	m.activeID = id
	m.mu.Unlock()

	if m.cfg != nil {
		m.cfg.TouchSession(id, time.Now())
	}
	m.observer.OnSessionSwitched(s, old)
	return true
}

// Close disconnects and removes a session. If it was active, an arbitrary
// surviving session becomes active. The transcript is persisted best-effort
// before teardown. Closing an unknown ID is a logged no-op.
func (m *SessionManager) Close(ctx context.Context, id string) error {
	return m.close(ctx, id, false)
}

func (m *SessionManager) close(ctx context.Context, id string, skipSwitch bool) error {
	m.mu.Lock()
	s, exists := m.sessions[id]
	if !exists {
		m.mu.Unlock()
		m.log.Warn("close of unknown session", "sessionID", id)
		return nil
	}
	delete(m.sessions, id)
	wasActive := m.activeID == id
	if wasActive {
		m.activeID = ""
	}
	var next string
	if wasActive && !skipSwitch {
		for survivorID := range m.sessions {
			next = survivorID
			break
		}
	}
	m.mu.Unlock()

	messageCount := s.MessageCount()
	m.persistMessages(s)

	if err := s.Disconnect(ctx); err != nil {
		m.log.Warn("session disconnect failed", "sessionID", id, "error", err)
	}

	m.observer.OnSessionClosed(id, messageCount)
	if next != "" {
		m.Switch(next)
	}
	m.log.Info("session closed", "sessionID", id, "messages", messageCount)
	return nil
}

// CloseAll disconnects and removes every session in parallel.
func (m *SessionManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = m.close(ctx, id, true)
		}(id)
	}
	wg.Wait()

	m.mu.Lock()
	m.activeID = ""
	m.mu.Unlock()
}

// Active returns the active session, or nil when none is.
func (m *SessionManager) Active() *session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[m.activeID]
}

// Get returns the session with the given ID, or nil.
func (m *SessionManager) Get(id string) *session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// FindByName returns the first session with the given name, or nil.
func (m *SessionManager) FindByName(name string) *session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sessions returns a snapshot of the live sessions.
func (m *SessionManager) Sessions() []*session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// SaveMessages persists a session's transcript and its current external ID.
func (m *SessionManager) SaveMessages(id string) error {
	m.mu.RLock()
	s := m.sessions[id]
	m.mu.RUnlock()
	if s == nil {
		return fmt.Errorf("unknown session: %s", id)
	}
	m.persistMessages(s)
	return nil
}

func (m *SessionManager) persistMessages(s *session.Session) {
	msgs := s.ExportMessages()
	if err := config.SaveSessionMessages(s.ID, msgs, config.MaxSessionMessageLines); err != nil {
		m.log.Warn("failed to save session messages", "sessionID", s.ID, "error", err)
	}
	if m.cfg != nil {
		if ext := s.ExternalID(); ext != "" {
			m.cfg.UpdateSessionExternalID(s.ID, ext)
		}
		if err := m.cfg.Save(); err != nil {
			m.log.Warn("failed to save config", "error", err)
		}
	}
}

// DeleteSession closes a session and removes its persisted record and
// transcript.
func (m *SessionManager) DeleteSession(ctx context.Context, id string) error {
	if err := m.Close(ctx, id); err != nil {
		return err
	}
	if m.cfg != nil {
		m.cfg.RemoveSession(id)
		if err := m.cfg.Save(); err != nil {
			m.log.Warn("failed to save config", "error", err)
		}
	}
	if err := config.DeleteSessionMessages(id); err != nil {
		m.log.Warn("failed to delete session messages", "sessionID", id, "error", err)
	}
	return nil
}
