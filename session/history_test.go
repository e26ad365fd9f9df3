package session

import (
	"testing"

	"github.com/zhubert/chorus-core/claude"
	"github.com/zhubert/chorus-core/config"
)

func TestLoadHistoryFoldsRecords(t *testing.T) {
	s := New("test", "/tmp", claude.NewMockClient(), Options{})

	s.LoadHistory([]config.Message{
		{Type: "user", Content: "first question"},
		{Type: "assistant", Content: "part one"},
		{Type: "assistant", Content: "part two"},
		{Type: "tool_use", ID: "t1", Name: "Bash", Input: []byte(`{"command":"ls"}`)},
		{Type: "user", Content: "second question"},
		{Type: "tool_use", ID: "t2", Name: "Read", Input: []byte(`{}`)},
	})

	msgs := s.Messages()
	if len(msgs) != 4 {
		t.Fatalf("history length = %d, want 4", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].User.Text != "first question" {
		t.Errorf("entry 0 = %+v, want user first question", msgs[0])
	}

	asst := msgs[1].Assistant
	if asst.Text != "part one\npart two" {
		t.Errorf("merged assistant text = %q, want joined parts", asst.Text)
	}
	if len(asst.ToolCalls) != 1 || asst.ToolCalls[0].Name != "Bash" {
		t.Errorf("tool calls = %+v, want Bash attached to open entry", asst.ToolCalls)
	}

	if msgs[2].Role != RoleUser {
		t.Errorf("entry 2 role = %q, want user", msgs[2].Role)
	}
	// A tool_use with no preceding assistant text opens a fresh entry.
	if msgs[3].Role != RoleAssistant || len(msgs[3].Assistant.ToolCalls) != 1 {
		t.Errorf("entry 3 = %+v, want assistant with Read call", msgs[3])
	}
}

func TestLoadHistoryReplacesExisting(t *testing.T) {
	s := New("test", "/tmp", claude.NewMockClient(), Options{})
	s.LoadHistory([]config.Message{{Type: "user", Content: "old"}})
	s.LoadHistory([]config.Message{{Type: "user", Content: "new"}})

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].User.Text != "new" {
		t.Errorf("history = %+v, want single new entry", msgs)
	}
}

func TestExportMessages(t *testing.T) {
	s := New("test", "/tmp", claude.NewMockClient(), Options{})
	s.LoadHistory([]config.Message{
		{Type: "user", Content: "question"},
		{Type: "assistant", Content: "answer"},
		{Type: "tool_use", ID: "t1", Name: "Bash", Input: []byte(`{"command":"ls"}`)},
	})

	out := s.ExportMessages()
	if len(out) != 3 {
		t.Fatalf("exported = %d records, want 3", len(out))
	}
	if out[0].Type != "user" || out[0].Content != "question" {
		t.Errorf("record 0 = %+v", out[0])
	}
	if out[1].Type != "assistant" || out[1].Content != "answer" {
		t.Errorf("record 1 = %+v", out[1])
	}
	if out[2].Type != "tool_use" || out[2].ID != "t1" || out[2].Name != "Bash" {
		t.Errorf("record 2 = %+v", out[2])
	}
}

func TestExportMessagesEmpty(t *testing.T) {
	s := New("test", "/tmp", claude.NewMockClient(), Options{})
	if out := s.ExportMessages(); len(out) != 0 {
		t.Errorf("exported = %d records, want 0", len(out))
	}
}
