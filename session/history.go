package session

import (
	"github.com/zhubert/chorus-core/config"
)

// LoadHistory replaces the session's conversation history with entries
// rebuilt from persisted messages. Consecutive assistant messages merge into
// one entry; tool_use records attach to the open assistant entry. Intended
// for session restore before the first Send.
func (s *Session) LoadHistory(records []config.Message) {
	s.mu.Lock()

	s.history = nil
	s.currentAssistant = nil
	s.textBuffer = ""
	s.needsNewEntry = true

	var open *AssistantContent
	for _, rec := range records {
		switch rec.Type {
		case "user":
			open = nil
			s.history = append(s.history, &ChatEntry{
				Role: RoleUser,
				User: &UserContent{Text: rec.Content},
			})
		case "assistant":
			if open != nil {
				if open.Text != "" && rec.Content != "" {
					open.Text += "\n" + rec.Content
				} else {
					open.Text += rec.Content
				}
				continue
			}
			open = &AssistantContent{Text: rec.Content}
			s.history = append(s.history, &ChatEntry{Role: RoleAssistant, Assistant: open})
		case "tool_use":
			if open == nil {
				open = &AssistantContent{}
				s.history = append(s.history, &ChatEntry{Role: RoleAssistant, Assistant: open})
			}
			open.ToolCalls = append(open.ToolCalls, &ToolCall{
				ID:    rec.ID,
				Name:  rec.Name,
				Input: rec.Input,
			})
		}
	}

	obs := s.observer
	s.mu.Unlock()
	obs.OnMessageUpdated(s)
}

// ExportMessages flattens the conversation history into persistable records,
// the inverse of LoadHistory. Streaming buffers are not included; call after
// a turn completes.
func (s *Session) ExportMessages() []config.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []config.Message
	for _, entry := range s.history {
		switch entry.Role {
		case RoleUser:
			if entry.User == nil {
				continue
			}
			out = append(out, config.Message{Type: "user", Content: entry.User.Text})
		case RoleAssistant:
			if entry.Assistant == nil {
				continue
			}
			if entry.Assistant.Text != "" {
				out = append(out, config.Message{Type: "assistant", Content: entry.Assistant.Text})
			}
			for _, tool := range entry.Assistant.ToolCalls {
				out = append(out, config.Message{
					Type:  "tool_use",
					ID:    tool.ID,
					Name:  tool.Name,
					Input: tool.Input,
				})
			}
		}
	}
	return out
}
