package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"taskflow/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	s := NewService(New(logger))
	t.Cleanup(s.Close)
	return s
}

func TestServiceSerializesConcurrentWriters(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := domain.Statuses()[i%3]
			if _, err := s.Add(ctx, status, domain.TaskFields{Title: fmt.Sprintf("t%d", i)}); err != nil {
				t.Errorf("add: %v", err)
			}
		}(i)
	}
	wg.Wait()

	tasks, err := s.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(tasks))
	}
	cols, err := s.Columns(ctx)
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	for _, col := range cols {
		if len(col.Tasks) == 0 {
			t.Fatalf("expected tasks in column %s", col.ID)
		}
	}
}

func TestServiceRoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	events, cancel := s.Subscribe(4)
	defer cancel()

	task, err := s.Add(ctx, domain.StatusTodo, domain.TaskFields{Title: "a"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Move(ctx, task.ID, domain.StatusProgress, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusProgress {
		t.Fatalf("expected progress, got %s", got.Status)
	}
	if _, err := s.Remove(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != domain.EventTaskCreated {
			t.Fatalf("unexpected first event %s", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestServiceClosed(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := NewService(New(logger))
	events, _ := s.Subscribe(1)
	s.Close()
	s.Close()

	if _, err := s.Add(context.Background(), domain.StatusTodo, domain.TaskFields{Title: "a"}); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
	if _, ok := <-events; ok {
		t.Fatal("expected subscription to be closed")
	}
	late, _ := s.Subscribe(1)
	if _, ok := <-late; ok {
		t.Fatal("expected subscription after close to be closed")
	}
}

func TestServiceHonoursContext(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// the actor may still accept the request, so either outcome is fine as
	// long as the call returns
	done := make(chan struct{})
	go func() {
		_, _ = s.Tasks(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("call with a cancelled context did not return")
	}
}

func TestServiceWatchNeitherMissesNorRepeats(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	const total = 50

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			if _, err := s.Add(ctx, domain.StatusTodo, domain.TaskFields{Title: fmt.Sprintf("t%d", i)}); err != nil {
				t.Errorf("add: %v", err)
			}
		}
	}()

	cols, events, cancel, err := s.Watch(ctx, total)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer cancel()
	wg.Wait()

	seen := make(map[string]bool)
	for _, task := range cols[0].Tasks {
		seen[task.ID] = true
	}
	for len(seen) < total {
		select {
		case ev := <-events:
			if seen[ev.TaskID] {
				t.Fatalf("task %s delivered twice", ev.TaskID)
			}
			seen[ev.TaskID] = true
		case <-time.After(time.Second):
			t.Fatalf("missing events: have %d of %d tasks", len(seen), total)
		}
	}
	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event %#v", ev)
	default:
	}
}

func TestServiceWatchAfterClose(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := NewService(New(logger))
	s.Close()

	if _, _, _, err := s.Watch(context.Background(), 1); !errors.Is(err, ErrServiceClosed) {
		t.Fatalf("expected ErrServiceClosed, got %v", err)
	}
}
