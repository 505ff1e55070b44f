package api

import (
	"net/http"
	"testing"

	"github.com/bytedance/sonic"

	"taskflow/domain"
)

func TestTimelineSortsAndLabels(t *testing.T) {
	s := newTestServer(t, "")
	s.create(t, domain.StatusTodo, `{"title":"low","priority":"low"}`)
	high := s.create(t, domain.StatusTodo, `{"title":"high","priority":"high","dueDate":"2024-06-11T09:00:00Z"}`)
	s.create(t, domain.StatusDone, `{"title":"finished"}`)

	rec := s.request(t, http.MethodGet, "/api/views/timeline?sort=priority", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp timelineResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Sort != domain.SortPriority || len(resp.Items) != 3 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	first := resp.Items[0]
	if first.Task.ID != high.ID {
		t.Fatalf("expected high priority first, got %q", first.Task.Title)
	}
	if first.Due == nil || first.Due.Kind != domain.RelativeTomorrow {
		t.Fatalf("expected due tomorrow, got %#v", first.Due)
	}
	if first.Created.Kind != domain.RelativeToday {
		t.Fatalf("expected created today, got %#v", first.Created)
	}
	for _, item := range resp.Items {
		switch item.Task.Title {
		case "low":
			if item.Urgency != "" || item.Due != nil {
				t.Fatalf("task without deadline should carry no urgency: %#v", item)
			}
		case "finished":
			if item.Urgency != domain.UrgencyCompleted {
				t.Fatalf("expected completed urgency, got %q", item.Urgency)
			}
		}
	}
}

func TestTimelineUnknownSort(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.request(t, http.MethodGet, "/api/views/timeline?sort=alphabetical", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestCalendarWeek(t *testing.T) {
	s := newTestServer(t, "")
	due := s.create(t, domain.StatusTodo, `{"title":"due","dueDate":"2024-06-12T15:00:00Z"}`)
	s.create(t, domain.StatusTodo, `{"title":"other","dueDate":"2024-06-20T15:00:00Z"}`)

	rec := s.request(t, http.MethodGet, "/api/views/calendar?mode=week&date=2024-06-12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp calendarResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Mode != "week" || resp.Date != "2024-06-12" {
		t.Fatalf("unexpected header: %s %s", resp.Mode, resp.Date)
	}
	if len(resp.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(resp.Days))
	}
	if len(resp.Selected) != 1 || resp.Selected[0].ID != due.ID {
		t.Fatalf("unexpected selection: %#v", resp.Selected)
	}
}

func TestCalendarDefaultsToTodayMonth(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.request(t, http.MethodGet, "/api/views/calendar", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	var resp calendarResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Mode != "month" || resp.Date != "2024-06-10" {
		t.Fatalf("unexpected header: %s %s", resp.Mode, resp.Date)
	}
	if len(resp.Days) == 0 {
		t.Fatalf("expected month days")
	}
}

func TestCalendarRejectsBadQuery(t *testing.T) {
	for name, target := range map[string]string{
		"mode": "/api/views/calendar?mode=year",
		"date": "/api/views/calendar?date=12/06/2024",
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, "")
			rec := s.request(t, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d", rec.Code)
			}
		})
	}
}

func TestQuarterAndYearViews(t *testing.T) {
	s := newTestServer(t, "")
	task := s.create(t, domain.StatusTodo, `{"title":"may","dueDate":"2024-05-20T10:00:00Z"}`)

	rec := s.request(t, http.MethodGet, "/api/views/quarter", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var resp periodsResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Year != 2024 || resp.Quarter != 2 || len(resp.Buckets) != 3 {
		t.Fatalf("unexpected quarter view: %#v", resp)
	}
	if resp.Buckets[1].Label != "2024-05" || len(resp.Buckets[1].Tasks) != 1 || resp.Buckets[1].Tasks[0].ID != task.ID {
		t.Fatalf("expected task in May bucket, got %#v", resp.Buckets[1])
	}

	rec = s.request(t, http.MethodGet, "/api/views/year?year=2024", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	resp = periodsResponse{}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Buckets) != 4 || len(resp.Buckets[1].Tasks) != 1 {
		t.Fatalf("unexpected year view: %#v", resp)
	}
}

func TestPeriodViewsRejectBadQuery(t *testing.T) {
	for name, target := range map[string]string{
		"quarter_range": "/api/views/quarter?quarter=5",
		"quarter_text":  "/api/views/quarter?quarter=two",
		"year_text":     "/api/views/year?year=abc",
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t, "")
			rec := s.request(t, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 got %d", rec.Code)
			}
		})
	}
}

func TestGanttView(t *testing.T) {
	s := newTestServer(t, "")
	task := s.create(t, domain.StatusProgress, `{"title":"bar","dueDate":"2024-06-15T18:00:00Z"}`)
	s.create(t, domain.StatusTodo, `{"title":"no bar"}`)

	rec := s.request(t, http.MethodGet, "/api/views/gantt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	var resp ganttResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.WindowDays != domain.GanttWindowDays {
		t.Fatalf("unexpected window: %d", resp.WindowDays)
	}
	if len(resp.Bars) != 1 || resp.Bars[0].TaskID != task.ID {
		t.Fatalf("unexpected bars: %#v", resp.Bars)
	}
	if resp.Bars[0].DurationDays != 6 {
		t.Fatalf("expected 6 day duration, got %d", resp.Bars[0].DurationDays)
	}
}
