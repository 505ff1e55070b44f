package notify

import (
	"time"

	"taskflow/domain"
)

// Source identifies the board in every webhook payload.
const Source = "TaskFlow - Kanban"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TaskAlert is the projection of a task sent to the webhook.
type TaskAlert struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Assignee *string         `json:"assignee,omitempty"`
	Area     *string         `json:"area,omitempty"`
	DueDate  time.Time       `json:"dueDate"`
	Status   domain.Status   `json:"status"`
	Priority domain.Priority `json:"priority"`
	// DaysRemaining is only set on upcoming alerts.
	DaysRemaining *int `json:"daysRemaining,omitempty"`
}

type Counts struct {
	TotalTasks         int `json:"totalTasks"`
	TasksWithDeadlines int `json:"tasksWithDeadlines"`
	Overdue            int `json:"overdue"`
	Upcoming           int `json:"upcoming"`
}

// Summary is the deadline report POSTed to the webhook.
type Summary struct {
	Timestamp     string      `json:"timestamp"`
	Source        string      `json:"source"`
	OverdueTasks  []TaskAlert `json:"overdueTasks"`
	UpcomingTasks []TaskAlert `json:"upcomingTasks"`
	Summary       Counts      `json:"summary"`
}

// BuildSummary reports the tasks past their deadline and those due within
// the next week. Status is ignored, and a task due earlier today shows up in
// both lists.
func BuildSummary(tasks []domain.Task, now time.Time) Summary {
	s := Summary{
		Timestamp:     now.UTC().Format(timestampLayout),
		Source:        Source,
		OverdueTasks:  make([]TaskAlert, 0),
		UpcomingTasks: make([]TaskAlert, 0),
	}
	s.Summary.TotalTasks = len(tasks)

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		s.Summary.TasksWithDeadlines++
		due := *t.DueDate
		if due.Before(now) {
			s.OverdueTasks = append(s.OverdueTasks, alert(t))
		}
		if domain.IsUpcoming(due, now) {
			a := alert(t)
			days := domain.DiffDays(due, now)
			a.DaysRemaining = &days
			s.UpcomingTasks = append(s.UpcomingTasks, a)
		}
	}
	s.Summary.Overdue = len(s.OverdueTasks)
	s.Summary.Upcoming = len(s.UpcomingTasks)
	return s
}

func alert(t domain.Task) TaskAlert {
	c := t.Clone()
	return TaskAlert{
		ID:       c.ID,
		Title:    c.Title,
		Assignee: c.Assignee,
		Area:     c.Area,
		DueDate:  *c.DueDate,
		Status:   c.Status,
		Priority: c.Priority,
	}
}
