package domain

import "time"

// EventType names a board mutation.
type EventType string

const (
	EventTaskCreated EventType = "task-created"
	EventTaskUpdated EventType = "task-updated"
	EventTaskMoved   EventType = "task-moved"
	EventTaskRemoved EventType = "task-removed"
)

// BoardEvent is emitted after every successful board mutation.
type BoardEvent struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	TaskID string    `json:"taskId"`
	// Task is the state after the mutation; for removals, the last state.
	Task  Task      `json:"task"`
	From  Status    `json:"from,omitempty"`
	To    Status    `json:"to,omitempty"`
	Index int       `json:"index"`
	Time  time.Time `json:"time"`
}

// EventEnvelope wraps an event with the board that produced it when it leaves
// the process.
type EventEnvelope struct {
	Source string     `json:"source"`
	Event  BoardEvent `json:"event"`
}
