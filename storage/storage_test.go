package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"taskflow/domain"
)

type fakeTable struct {
	rows    map[string][]byte
	getErr  error
	upserts []*aztables.UpsertEntityOptions
}

func newFakeTable() *fakeTable {
	return &fakeTable{rows: make(map[string][]byte)}
}

func (f *fakeTable) GetEntity(_ context.Context, pk, rk string, _ *aztables.GetEntityOptions) (aztables.GetEntityResponse, error) {
	if f.getErr != nil {
		return aztables.GetEntityResponse{}, f.getErr
	}
	v, ok := f.rows[pk+"/"+rk]
	if !ok {
		return aztables.GetEntityResponse{}, &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceNotFound"}
	}
	return aztables.GetEntityResponse{Value: v}, nil
}

func (f *fakeTable) UpsertEntity(_ context.Context, entity []byte, o *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error) {
	var ent struct {
		PartitionKey string
		RowKey       string
	}
	if err := json.Unmarshal(entity, &ent); err != nil {
		return aztables.UpsertEntityResponse{}, err
	}
	f.rows[ent.PartitionKey+"/"+ent.RowKey] = entity
	f.upserts = append(f.upserts, o)
	return aztables.UpsertEntityResponse{}, nil
}

type fakeQueue struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeQueue) EnqueueMessage(_ context.Context, content string, _ *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return azqueue.EnqueueMessagesResponse{}, f.err
	}
	f.messages = append(f.messages, content)
	return azqueue.EnqueueMessagesResponse{}, nil
}

func TestDecodeSettingsEntity(t *testing.T) {
	data := []byte(`{"PartitionKey":"board","RowKey":"b1","WebhookUrl":"https://hooks.example/x"}`)
	s, err := decodeSettingsEntity(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.WebhookURL != "https://hooks.example/x" {
		t.Fatalf("unexpected settings: %+v", s)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	table := newFakeTable()
	s := &Storage{settingsTable: table}
	ctx := context.Background()

	empty, err := s.FetchSettings(ctx, "b1")
	if err != nil {
		t.Fatalf("fetch missing settings: %v", err)
	}
	if empty != (domain.Settings{}) {
		t.Fatalf("expected zero settings, got %+v", empty)
	}

	want := domain.Settings{WebhookURL: "https://hooks.example/x"}
	if err := s.SaveSettings(ctx, "b1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(table.upserts) != 1 || table.upserts[0] == nil || table.upserts[0].UpdateMode != aztables.UpdateModeReplace {
		t.Fatalf("expected a replace upsert, got %#v", table.upserts)
	}
	got, err := s.FetchSettings(ctx, "b1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestFetchSettingsPropagatesErrors(t *testing.T) {
	boom := errors.New("table unavailable")
	table := newFakeTable()
	table.getErr = boom
	s := &Storage{settingsTable: table}

	if _, err := s.FetchSettings(context.Background(), "b1"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestPublishEvent(t *testing.T) {
	q := &fakeQueue{}
	s := &Storage{source: "board-1", eventQueue: q}
	ev := domain.BoardEvent{ID: "e1", Type: domain.EventTaskMoved, TaskID: "t1", From: domain.StatusTodo, To: domain.StatusDone}

	if err := s.PublishEvent(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(q.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(q.messages))
	}
	var env domain.EventEnvelope
	if err := json.Unmarshal([]byte(q.messages[0]), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Source != "board-1" || env.Event.ID != "e1" || env.Event.To != domain.StatusDone {
		t.Fatalf("unexpected envelope %+v", env)
	}

	q.err = errors.New("queue full")
	if err := s.PublishEvent(context.Background(), ev); !errors.Is(err, q.err) {
		t.Fatalf("expected queue error, got %v", err)
	}
}

func TestPublishEventWithoutQueue(t *testing.T) {
	s := &Storage{}
	if err := s.PublishEvent(context.Background(), domain.BoardEvent{ID: "e1"}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
