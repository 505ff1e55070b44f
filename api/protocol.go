package api

import (
	"taskflow/domain"
	"taskflow/notify"
)

const requestMaxSize = 64 * 1024 // 64 KiB

const idempotencyKeyHeader = "Idempotency-Key"

type errorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// GET /api/columns response body
type columnsResponse struct {
	Columns []domain.Column `json:"columns"`
}

// POST /api/tasks/:id/move request body
type moveRequest struct {
	Status domain.Status `json:"status"`
	Index  int           `json:"index"`
}

type timelineItem struct {
	Task    domain.Task          `json:"task"`
	Urgency domain.Urgency       `json:"urgency,omitempty"`
	Due     *domain.RelativeDate `json:"due,omitempty"`
	Created domain.RelativeDate  `json:"created"`
}

// GET /api/views/timeline response body
type timelineResponse struct {
	Sort  domain.SortKey `json:"sort"`
	Items []timelineItem `json:"items"`
}

// GET /api/views/calendar response body
type calendarResponse struct {
	Mode     string               `json:"mode"`
	Date     string               `json:"date"`
	Days     []domain.CalendarDay `json:"days"`
	Selected []domain.Task        `json:"selected"`
}

// GET /api/views/quarter and /api/views/year response body
type periodsResponse struct {
	Year    int                   `json:"year"`
	Quarter int                   `json:"quarter,omitempty"`
	Buckets []domain.PeriodBucket `json:"buckets"`
}

// GET /api/views/gantt response body
type ganttResponse struct {
	WindowDays int               `json:"windowDays"`
	Bars       []domain.GanttBar `json:"bars"`
}

// POST /api/notify response body
type notifyResponse struct {
	Timestamp string        `json:"timestamp"`
	Summary   notify.Counts `json:"summary"`
}
