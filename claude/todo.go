package claude

import (
	"encoding/json"
	"fmt"
)

// TodoStatus is the lifecycle state of a single todo item.
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

// TodoItem is one entry of a TodoWrite tool call. ActiveForm is the
// present-participle phrasing shown while the item is in progress
// ("Running tests" for "Run tests").
type TodoItem struct {
	Content    string     `json:"content"`
	Status     TodoStatus `json:"status"`
	ActiveForm string     `json:"activeForm"`
}

// TodoList is the agent's current plan. Each TodoWrite call carries the full
// list, so a parsed TodoList replaces the previous one wholesale.
type TodoList struct {
	Items []TodoItem
}

// ParseTodoWriteInput decodes the input of a TodoWrite tool call. An empty
// or unparseable payload, or one without todos, is an error; the caller
// keeps its previous list in that case.
func ParseTodoWriteInput(input json.RawMessage) (*TodoList, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	var payload struct {
		Todos []TodoItem `json:"todos"`
	}
	if err := json.Unmarshal(input, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse TodoWrite input: %w", err)
	}
	if len(payload.Todos) == 0 {
		return nil, fmt.Errorf("no todos in input")
	}

	return &TodoList{Items: payload.Todos}, nil
}

// CountByStatus tallies the items in each lifecycle state. Safe on a nil list.
func (t *TodoList) CountByStatus() (pending, inProgress, completed int) {
	if t == nil {
		return
	}
	for _, item := range t.Items {
		switch item.Status {
		case TodoStatusPending:
			pending++
		case TodoStatusInProgress:
			inProgress++
		case TodoStatusCompleted:
			completed++
		}
	}
	return
}

// ActiveItem returns the first in-progress item, or nil when nothing is
// running. Status lines show its ActiveForm.
func (t *TodoList) ActiveItem() *TodoItem {
	if t == nil {
		return nil
	}
	for i := range t.Items {
		if t.Items[i].Status == TodoStatusInProgress {
			return &t.Items[i]
		}
	}
	return nil
}

// HasItems reports whether the list has any items. Safe on a nil list.
func (t *TodoList) HasItems() bool {
	return t != nil && len(t.Items) > 0
}

// IsComplete reports whether every item is completed. An empty or nil list
// is not complete.
func (t *TodoList) IsComplete() bool {
	if !t.HasItems() {
		return false
	}
	for _, item := range t.Items {
		if item.Status != TodoStatusCompleted {
			return false
		}
	}
	return true
}
