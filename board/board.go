package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"taskflow/domain"
)

// Board keeps the tasks of the three fixed columns in display order. It is
// not safe for concurrent use; Service serializes access to one.
type Board struct {
	columns map[domain.Status][]domain.Task
	clock   *clock
	newID   func() string
	log     *log.Logger
	events  *broker
}

// Option configures a Board.
type Option func(*Board)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.clock = newClock(now) }
}

// WithIDGenerator replaces the uuid generator used for task, evolution,
// attachment and event ids.
func WithIDGenerator(gen func() string) Option {
	return func(b *Board) { b.newID = gen }
}

// New returns an empty board.
func New(logger *log.Logger, opts ...Option) *Board {
	if logger == nil {
		panic("Logger is not initialized")
	}
	b := &Board{
		columns: make(map[domain.Status][]domain.Task, 3),
		clock:   newClock(nil),
		newID:   uuid.NewString,
		log:     logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.events = newBroker(logger)
	return b
}

// Subscribe registers an observer of board events. The returned channel is
// closed by cancel.
func (b *Board) Subscribe(buffer int) (<-chan domain.BoardEvent, func()) {
	return b.events.subscribe(buffer)
}

// Watch subscribes and snapshots the columns in one step. The channel carries
// exactly the mutations made after the snapshot.
func (b *Board) Watch(buffer int) ([]domain.Column, <-chan domain.BoardEvent, func()) {
	events, cancel := b.events.subscribe(buffer)
	return b.Columns(), events, cancel
}

// Add creates a task at the end of the status column. The status argument
// wins over fields.Status.
func (b *Board) Add(status domain.Status, fields domain.TaskFields) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, domain.Invalid("status", "unknown status "+string(status))
	}
	fields.Status = status
	if err := fields.Validate(); err != nil {
		return domain.Task{}, err
	}

	now := b.clock.next()
	t := domain.Task{ID: b.newID(), Status: status, CreatedAt: now}
	t.Apply(fields, now, b.newID)

	b.columns[status] = append(b.columns[status], t)
	b.emit(domain.EventTaskCreated, t, "", status, len(b.columns[status])-1, now)
	b.log.WithFields(log.Fields{"task": t.ID, "status": status}).Debug("task added")
	return t.Clone(), nil
}

// Edit replaces every mutable field of a task. A task whose status changes
// goes to the end of its new column; otherwise it keeps its place.
func (b *Board) Edit(id string, fields domain.TaskFields) (domain.Task, error) {
	return b.edit(id, fields, -1)
}

// EditAt is Edit that also places the task at index of its (possibly new)
// column. The index is clamped to the column bounds.
func (b *Board) EditAt(id string, fields domain.TaskFields, index int) (domain.Task, error) {
	if index < 0 {
		index = 0
	}
	return b.edit(id, fields, index)
}

func (b *Board) edit(id string, fields domain.TaskFields, index int) (domain.Task, error) {
	if err := fields.Validate(); err != nil {
		return domain.Task{}, err
	}
	from, pos, ok := b.locate(id)
	if !ok {
		return domain.Task{}, notFound(id)
	}

	now := b.clock.next()
	t := b.columns[from][pos]
	t.Apply(fields, now, b.newID)
	to := t.Status

	if to == from && index < 0 {
		b.columns[from][pos] = t
	} else {
		b.columns[from] = removeAt(b.columns[from], pos)
		if index < 0 || index > len(b.columns[to]) {
			index = len(b.columns[to])
		}
		b.columns[to] = insertAt(b.columns[to], index, t)
		pos = index
	}

	b.emit(domain.EventTaskUpdated, t, from, to, pos, now)
	return t.Clone(), nil
}

// Move relocates a task within or across columns. The index is clamped to
// the destination after the task has been taken out. Moving a task onto its
// current position changes nothing and emits no event. UpdatedAt changes only
// when the task switches columns.
func (b *Board) Move(id string, dest domain.Status, index int) (domain.Task, error) {
	if !dest.Valid() {
		return domain.Task{}, domain.Invalid("status", "unknown status "+string(dest))
	}
	from, pos, ok := b.locate(id)
	if !ok {
		return domain.Task{}, notFound(id)
	}

	t := b.columns[from][pos]
	rest := len(b.columns[dest])
	if from == dest {
		rest--
	}
	index = clamp(index, 0, rest)
	if from == dest && index == pos {
		return t.Clone(), nil
	}

	b.columns[from] = removeAt(b.columns[from], pos)
	now := b.clock.next()
	if from != dest {
		t.Status = dest
		t.UpdatedAt = now
	}
	b.columns[dest] = insertAt(b.columns[dest], index, t)

	b.emit(domain.EventTaskMoved, t, from, dest, index, now)
	return t.Clone(), nil
}

// Remove deletes a task for good.
func (b *Board) Remove(id string) (domain.Task, error) {
	from, pos, ok := b.locate(id)
	if !ok {
		return domain.Task{}, notFound(id)
	}
	t := b.columns[from][pos]
	b.columns[from] = removeAt(b.columns[from], pos)

	b.emit(domain.EventTaskRemoved, t, from, "", pos, b.clock.next())
	b.log.WithField("task", id).Debug("task removed")
	return t.Clone(), nil
}

// Get returns a copy of the task with the given id.
func (b *Board) Get(id string) (domain.Task, error) {
	from, pos, ok := b.locate(id)
	if !ok {
		return domain.Task{}, notFound(id)
	}
	return b.columns[from][pos].Clone(), nil
}

// Column returns a copy of one column.
func (b *Board) Column(status domain.Status) (domain.Column, error) {
	if !status.Valid() {
		return domain.Column{}, domain.Invalid("status", "unknown status "+string(status))
	}
	return domain.Column{ID: status, Title: status.Title(), Tasks: cloneTasks(b.columns[status])}, nil
}

// Columns returns copies of the three columns in display order.
func (b *Board) Columns() []domain.Column {
	out := make([]domain.Column, 0, 3)
	for _, s := range domain.Statuses() {
		out = append(out, domain.Column{ID: s, Title: s.Title(), Tasks: cloneTasks(b.columns[s])})
	}
	return out
}

// Tasks flattens the board in column order.
func (b *Board) Tasks() []domain.Task {
	out := make([]domain.Task, 0, b.Len())
	for _, s := range domain.Statuses() {
		out = append(out, cloneTasks(b.columns[s])...)
	}
	return out
}

// Len counts the tasks on the board.
func (b *Board) Len() int {
	n := 0
	for _, s := range domain.Statuses() {
		n += len(b.columns[s])
	}
	return n
}

// Seed loads existing tasks, appending each to the column of its status and
// keeping its timestamps. Missing ids and creation times are filled in;
// evolutions without a timestamp take the task's creation time. It
// emits no events.
func (b *Board) Seed(tasks []domain.Task) error {
	for i, t := range tasks {
		if err := t.Fields().Validate(); err != nil {
			return fmt.Errorf("seed task %d: %w", i, err)
		}
		if !t.Status.Valid() {
			return fmt.Errorf("seed task %d: %w", i, domain.Invalid("status", "missing status"))
		}
		if t.ID == "" {
			t.ID = b.newID()
		} else if _, _, dup := b.locate(t.ID); dup {
			return fmt.Errorf("seed task %d: %w", i, domain.Invalid("id", "duplicate id "+t.ID))
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = b.clock.next()
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		t = t.Clone()
		for j := range t.Evolutions {
			if t.Evolutions[j].ID == "" {
				t.Evolutions[j].ID = b.newID()
			}
			if t.Evolutions[j].CreatedAt.IsZero() {
				t.Evolutions[j].CreatedAt = t.CreatedAt
			}
		}
		for j := range t.Attachments {
			if t.Attachments[j].ID == "" {
				t.Attachments[j].ID = b.newID()
			}
		}
		b.clock.observe(t.UpdatedAt)
		b.columns[t.Status] = append(b.columns[t.Status], t)
	}
	b.log.WithField("count", len(tasks)).Info("board seeded")
	return nil
}

// Close ends every subscription.
func (b *Board) Close() {
	b.events.closeAll()
}

func (b *Board) locate(id string) (domain.Status, int, bool) {
	for _, s := range domain.Statuses() {
		for i, t := range b.columns[s] {
			if t.ID == id {
				return s, i, true
			}
		}
	}
	return "", -1, false
}

func (b *Board) emit(typ domain.EventType, t domain.Task, from, to domain.Status, index int, at time.Time) {
	b.events.publish(domain.BoardEvent{
		ID:     b.newID(),
		Type:   typ,
		TaskID: t.ID,
		Task:   t.Clone(),
		From:   from,
		To:     to,
		Index:  index,
		Time:   at,
	})
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func removeAt(tasks []domain.Task, i int) []domain.Task {
	return append(tasks[:i:i], tasks[i+1:]...)
}

func insertAt(tasks []domain.Task, i int, t domain.Task) []domain.Task {
	tasks = append(tasks, domain.Task{})
	copy(tasks[i+1:], tasks[i:])
	tasks[i] = t
	return tasks
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
