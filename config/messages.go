package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhubert/chorus-core/paths"
)

// MaxSessionMessageLines caps how much transcript content is kept per
// session file.
const MaxSessionMessageLines = 10000

// Message is one persisted chat history record. Text records ("user",
// "assistant") carry Content; "tool_use" records carry ID/Name/Input instead.
type Message struct {
	Type    string          `json:"type"` // "user", "assistant", or "tool_use"
	Content string          `json:"content,omitempty"`
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name,omitempty"`
	Input   json.RawMessage `json:"input,omitempty"`
}

func sessionMessagePath(sessionID string) (string, error) {
	dir, err := paths.SessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionID+".json"), nil
}

// SaveSessionMessages writes a session's transcript, keeping only the most
// recent messages that fit within maxLines of content. maxLines <= 0 keeps
// everything.
func SaveSessionMessages(sessionID string, messages []Message, maxLines int) error {
	path, err := sessionMessagePath(sessionID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if maxLines > 0 {
		messages = trimToLineBudget(messages, maxLines)
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// trimToLineBudget drops the oldest messages until the remainder fits within
// budget lines. The newest message is always kept.
func trimToLineBudget(messages []Message, budget int) []Message {
	if len(messages) == 0 {
		return messages
	}
	total := 0
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		lines := countLines(messages[i].Content)
		if total+lines > budget && start < len(messages) {
			break
		}
		total += lines
		start = i
	}
	return messages[start:]
}

// LoadSessionMessages reads a session's transcript. A missing file is an
// empty transcript, not an error.
func LoadSessionMessages(sessionID string) ([]Message, error) {
	path, err := sessionMessagePath(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteSessionMessages removes a session's transcript file. Deleting a
// missing file is a no-op.
func DeleteSessionMessages(sessionID string) error {
	path, err := sessionMessagePath(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// listTranscriptIDs returns the session IDs of every transcript file on disk.
func listTranscriptIDs() ([]string, error) {
	dir, err := paths.SessionsDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// ClearAllSessionMessages deletes every transcript file, best-effort, and
// returns how many were removed.
func ClearAllSessionMessages() (int, error) {
	ids, err := listTranscriptIDs()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		if err := DeleteSessionMessages(id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// FindOrphanedSessionMessages returns the IDs of transcript files whose
// session no longer has a record in the config.
func FindOrphanedSessionMessages(cfg *Config) ([]string, error) {
	ids, err := listTranscriptIDs()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, sess := range cfg.GetSessions() {
		known[sess.ID] = true
	}

	var orphans []string
	for _, id := range ids {
		if !known[id] {
			orphans = append(orphans, id)
		}
	}
	return orphans, nil
}

// PruneOrphanedSessionMessages deletes orphaned transcript files and returns
// how many were removed.
func PruneOrphanedSessionMessages(cfg *Config) (int, error) {
	orphans, err := FindOrphanedSessionMessages(cfg)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range orphans {
		if err := DeleteSessionMessages(id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// FormatTranscript renders messages as a plain-text transcript: speaker
// prefixes for text records, a one-line summary for tool records, blank
// lines between records.
func FormatTranscript(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.Type {
		case "user":
			sb.WriteString("User:\n")
			sb.WriteString(msg.Content)
		case "assistant":
			sb.WriteString("Assistant:\n")
			sb.WriteString(msg.Content)
		case "tool_use":
			sb.WriteString("Tool: " + msg.Name)
		default:
			sb.WriteString(msg.Type + ":\n")
			sb.WriteString(msg.Content)
		}
	}
	return sb.String()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
