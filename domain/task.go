package domain

import (
	"strings"
	"time"
)

// Status is both the workflow state of a task and the id of the board column
// holding it.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusDone     Status = "done"
)

// Statuses lists the fixed board columns in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusProgress, StatusDone}
}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusProgress, StatusDone:
		return true
	}
	return false
}

// Title is the column heading shown for the status.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities: high=3, medium=2, low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Evolution is a progress note appended to a task.
type Evolution struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment references a file kept by an external attachment store.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Task represents a single board card.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	Assignee    *string      `json:"assignee,omitempty"`
	Area        *string      `json:"area,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Evolutions  []Evolution  `json:"evolutions"`
	Attachments []Attachment `json:"attachments"`
	Results     string       `json:"results"`
	Tests       string       `json:"tests"`
	Research    string       `json:"research"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TaskFields carries every mutable task field. Add and Edit replace the whole
// set at once.
type TaskFields struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      Status       `json:"status,omitempty"`
	Priority    Priority     `json:"priority,omitempty"`
	Assignee    *string      `json:"assignee,omitempty"`
	Area        *string      `json:"area,omitempty"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Evolutions  []Evolution  `json:"evolutions,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Results     string       `json:"results,omitempty"`
	Tests       string       `json:"tests,omitempty"`
	Research    string       `json:"research,omitempty"`
}

// Validate rejects an empty title and unknown enum values. Empty status and
// priority are allowed; callers fill them in.
func (f TaskFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if f.Status != "" && !f.Status.Valid() {
		return invalid("status", "unknown status "+string(f.Status))
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return invalid("priority", "unknown priority "+string(f.Priority))
	}
	return nil
}

// Apply replaces the mutable fields of t with f and stamps UpdatedAt. Nested
// records without an id get one from newID; evolutions without a timestamp
// take now.
func (t *Task) Apply(f TaskFields, now time.Time, newID func() string) {
	t.Title = strings.TrimSpace(f.Title)
	t.Description = f.Description
	if f.Status != "" {
		t.Status = f.Status
	}
	t.Priority = f.Priority
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.Assignee = cloneString(f.Assignee)
	t.Area = cloneString(f.Area)
	t.DueDate = cloneTime(f.DueDate)
	t.Evolutions = make([]Evolution, len(f.Evolutions))
	for i, ev := range f.Evolutions {
		if ev.ID == "" {
			ev.ID = newID()
		}
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = now
		}
		t.Evolutions[i] = ev
	}
	t.Attachments = make([]Attachment, len(f.Attachments))
	for i, a := range f.Attachments {
		if a.ID == "" {
			a.ID = newID()
		}
		t.Attachments[i] = a
	}
	t.Results = f.Results
	t.Tests = f.Tests
	t.Research = f.Research
	t.UpdatedAt = now
}

// Fields returns the mutable part of t, suitable for a follow-up edit.
func (t Task) Fields() TaskFields {
	c := t.Clone()
	return TaskFields{
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Priority:    c.Priority,
		Assignee:    c.Assignee,
		Area:        c.Area,
		DueDate:     c.DueDate,
		Evolutions:  c.Evolutions,
		Attachments: c.Attachments,
		Results:     c.Results,
		Tests:       c.Tests,
		Research:    c.Research,
	}
}

// Clone returns a deep copy so callers never share slices or pointers with
// the board.
func (t Task) Clone() Task {
	out := t
	out.Assignee = cloneString(t.Assignee)
	out.Area = cloneString(t.Area)
	out.DueDate = cloneTime(t.DueDate)
	out.Evolutions = append([]Evolution{}, t.Evolutions...)
	out.Attachments = append([]Attachment{}, t.Attachments...)
	return out
}

// HasDueDate reports whether the task carries a deadline.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Column is a named, ordered bucket of tasks sharing one status.
type Column struct {
	ID    Status `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
