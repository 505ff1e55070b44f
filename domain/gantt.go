package domain

import "time"

// GanttWindowDays is the span of the Gantt display; offsets and durations are
// expressed as a share of it.
const GanttWindowDays = 14

// GanttBar places one task on the Gantt chart.
type GanttBar struct {
	TaskID          string   `json:"taskId"`
	Title           string   `json:"title"`
	Status          Status   `json:"status"`
	Priority        Priority `json:"priority"`
	StartOffsetDays int      `json:"startOffsetDays"`
	DurationDays    int      `json:"durationDays"`
	LeftPercent     float64  `json:"leftPercent"`
	WidthPercent    float64  `json:"widthPercent"`
}

// wholeDays truncates d to full days toward zero.
func wholeDays(d time.Duration) int {
	return int(d / day)
}

// GanttLayout lays out every task that has a due date. Offsets are measured
// from the earliest creation time among all given tasks.
func GanttLayout(tasks []Task) []GanttBar {
	out := make([]GanttBar, 0)
	if len(tasks) == 0 {
		return out
	}
	earliest := tasks[0].CreatedAt
	for _, t := range tasks[1:] {
		if t.CreatedAt.Before(earliest) {
			earliest = t.CreatedAt
		}
	}
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		offset := wholeDays(t.CreatedAt.Sub(earliest))
		duration := wholeDays(t.DueDate.Sub(t.CreatedAt)) + 1
		out = append(out, GanttBar{
			TaskID:          t.ID,
			Title:           t.Title,
			Status:          t.Status,
			Priority:        t.Priority,
			StartOffsetDays: offset,
			DurationDays:    duration,
			LeftPercent:     windowPercent(offset),
			WidthPercent:    windowPercent(duration),
		})
	}
	return out
}

func windowPercent(days int) float64 {
	p := float64(days) / GanttWindowDays * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
