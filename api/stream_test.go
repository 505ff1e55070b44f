package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"taskflow/domain"
)

type sseMessage struct {
	event string
	data  string
}

func readSSE(t *testing.T, r *bufio.Reader) sseMessage {
	t.Helper()
	var msg sseMessage
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if msg.event != "" {
				return msg
			}
		case strings.HasPrefix(line, "event: "):
			msg.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			msg.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestStreamSendsSnapshotThenEvents(t *testing.T) {
	s := newTestServer(t, "")
	existing := s.create(t, domain.StatusTodo, `{"title":"existing"}`)

	srv := httptest.NewServer(s.e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	r := bufio.NewReader(resp.Body)

	snap := readSSE(t, r)
	if snap.event != "snapshot" {
		t.Fatalf("expected snapshot first, got %q", snap.event)
	}
	var cols columnsResponse
	if err := sonic.UnmarshalString(snap.data, &cols); err != nil {
		t.Fatalf("invalid snapshot: %v", err)
	}
	if len(cols.Columns) != 3 || len(cols.Columns[0].Tasks) != 1 || cols.Columns[0].Tasks[0].ID != existing.ID {
		t.Fatalf("unexpected snapshot: %#v", cols)
	}

	created := s.create(t, domain.StatusProgress, `{"title":"live"}`)
	msg := readSSE(t, r)
	if msg.event != string(domain.EventTaskCreated) {
		t.Fatalf("expected %s, got %q", domain.EventTaskCreated, msg.event)
	}
	var ev domain.BoardEvent
	if err := sonic.UnmarshalString(msg.data, &ev); err != nil {
		t.Fatalf("invalid event: %v", err)
	}
	if ev.TaskID != created.ID || ev.To != domain.StatusProgress {
		t.Fatalf("unexpected event: %#v", ev)
	}
}
