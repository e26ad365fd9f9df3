package config

import (
	"time"
)

// SessionRecord is the persisted form of a chat session, enough to resume it
// across restarts. The live conversation state lives in the session package;
// this record only carries identity and the external session ID needed for
// --resume style reconnection.
type SessionRecord struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	WorkDir    string    `yaml:"workdir"`
	ExternalID string    `yaml:"external_id,omitempty"` // Session ID assigned by the agent process
	CreatedAt  time.Time `yaml:"created_at"`
	LastUsedAt time.Time `yaml:"last_used_at,omitempty"`
}

// AddSession adds a new session record
func (c *Config) AddSession(record SessionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sessions = append(c.Sessions, record)
}

// RemoveSession removes a session record by ID
func (c *Config) RemoveSession(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.Sessions {
		if s.ID == id {
			c.Sessions = append(c.Sessions[:i], c.Sessions[i+1:]...)
			return true
		}
	}
	return false
}

// ClearSessions removes all session records
func (c *Config) ClearSessions() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sessions = []SessionRecord{}
}

// GetSession returns a copy of a session record by ID.
// Returns nil if no session with the given ID exists.
func (c *Config) GetSession(id string) *SessionRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			rec := c.Sessions[i] // copy
			return &rec
		}
	}
	return nil
}

// GetSessions returns a copy of the session records slice
func (c *Config) GetSessions() []SessionRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sessions := make([]SessionRecord, len(c.Sessions))
	copy(sessions, c.Sessions)
	return sessions
}

// UpdateSessionExternalID records the external session ID assigned by the
// agent process, so the session can be resumed later.
func (c *Config) UpdateSessionExternalID(id, externalID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			c.Sessions[i].ExternalID = externalID
			return true
		}
	}
	return false
}

// TouchSession updates the last-used timestamp for a session record.
func (c *Config) TouchSession(id string, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			c.Sessions[i].LastUsedAt = at
			return true
		}
	}
	return false
}

// RenameSession updates the display name of a session record
func (c *Config) RenameSession(id, newName string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			c.Sessions[i].Name = newName
			return true
		}
	}
	return false
}
