package board

import (
	"context"
	"errors"
	"sync"

	"taskflow/domain"
)

// ErrServiceClosed is returned by Service calls made after Close.
var ErrServiceClosed = errors.New("board service closed")

type request struct {
	fn   func(*Board)
	done chan struct{}
}

// Service owns a Board on a single goroutine and runs every operation there,
// one at a time.
type Service struct {
	board *Board
	reqs  chan request
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewService starts the goroutine owning b. The caller must not touch b
// directly afterwards.
func NewService(b *Board) *Service {
	s := &Service{
		board: b,
		reqs:  make(chan request),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Service) run() {
	defer close(s.done)
	for {
		select {
		case r := <-s.reqs:
			r.fn(s.board)
			close(r.done)
		case <-s.quit:
			s.board.Close()
			return
		}
	}
}

// Close stops the owning goroutine and ends all subscriptions. It waits for
// an in-flight operation to finish.
func (s *Service) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Service) do(ctx context.Context, fn func(*Board)) error {
	r := request{fn: fn, done: make(chan struct{})}
	select {
	case <-s.quit:
		return ErrServiceClosed
	default:
	}
	select {
	case s.reqs <- r:
	case <-s.quit:
		return ErrServiceClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-r.done
	return nil
}

func call[T any](ctx context.Context, s *Service, fn func(*Board) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	if derr := s.do(ctx, func(b *Board) { out, err = fn(b) }); derr != nil {
		return out, derr
	}
	return out, err
}

func (s *Service) Add(ctx context.Context, status domain.Status, fields domain.TaskFields) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.Add(status, fields) })
}

func (s *Service) Edit(ctx context.Context, id string, fields domain.TaskFields) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.Edit(id, fields) })
}

func (s *Service) EditAt(ctx context.Context, id string, fields domain.TaskFields, index int) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.EditAt(id, fields, index) })
}

func (s *Service) Move(ctx context.Context, id string, dest domain.Status, index int) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.Move(id, dest, index) })
}

func (s *Service) Remove(ctx context.Context, id string) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.Remove(id) })
}

func (s *Service) Get(ctx context.Context, id string) (domain.Task, error) {
	return call(ctx, s, func(b *Board) (domain.Task, error) { return b.Get(id) })
}

func (s *Service) Column(ctx context.Context, status domain.Status) (domain.Column, error) {
	return call(ctx, s, func(b *Board) (domain.Column, error) { return b.Column(status) })
}

func (s *Service) Columns(ctx context.Context) ([]domain.Column, error) {
	return call(ctx, s, func(b *Board) ([]domain.Column, error) { return b.Columns(), nil })
}

// Tasks returns a snapshot of every task in column order.
func (s *Service) Tasks(ctx context.Context) ([]domain.Task, error) {
	return call(ctx, s, func(b *Board) ([]domain.Task, error) { return b.Tasks(), nil })
}

func (s *Service) Seed(ctx context.Context, tasks []domain.Task) error {
	_, err := call(ctx, s, func(b *Board) (struct{}, error) { return struct{}{}, b.Seed(tasks) })
	return err
}

// Watch returns the current columns together with a subscription that starts
// right after them. Nothing is subscribed when the error is set.
func (s *Service) Watch(ctx context.Context, buffer int) ([]domain.Column, <-chan domain.BoardEvent, func(), error) {
	var (
		cols   []domain.Column
		events <-chan domain.BoardEvent
		cancel func()
	)
	if err := s.do(ctx, func(b *Board) { cols, events, cancel = b.Watch(buffer) }); err != nil {
		return nil, nil, nil, err
	}
	return cols, events, cancel, nil
}

// Subscribe registers an observer. After Close it returns a closed channel.
func (s *Service) Subscribe(buffer int) (<-chan domain.BoardEvent, func()) {
	return s.board.Subscribe(buffer)
}
