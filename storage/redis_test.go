package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"taskflow/domain"
)

func TestRedisSettings(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewRedisSettings(client)
	ctx := context.Background()

	empty, err := store.FetchSettings(ctx, "b1")
	if err != nil {
		t.Fatalf("fetch missing: %v", err)
	}
	if empty != (domain.Settings{}) {
		t.Fatalf("expected zero settings, got %+v", empty)
	}

	want := domain.Settings{WebhookURL: "https://hooks.example/x"}
	if err := store.SaveSettings(ctx, "b1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(settingsKey("b1")); ttl != 0 {
		t.Fatalf("settings must not expire, ttl=%v", ttl)
	}
	got, err := store.FetchSettings(ctx, "b1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestRedisPublisher(t *testing.T) {
	_, client := newMiniredis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "board-events")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	pub := NewRedisPublisher(client, "board-events", "board-1")
	ev := domain.BoardEvent{ID: "e1", Type: domain.EventTaskCreated, TaskID: "t1"}
	if err := pub.PublishEvent(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var env domain.EventEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Source != "board-1" || env.Event.TaskID != "t1" || env.Event.Type != domain.EventTaskCreated {
			t.Fatalf("unexpected envelope %+v", env)
		}
	case <-time.After(time.Second):
		t.Fatal("event not received")
	}
}
