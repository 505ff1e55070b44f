package domain

import (
	"fmt"
	"time"
)

// Period is an inclusive time range.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies in [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Matches reports whether the task's due date or its creation time falls in
// the period. Either one is enough.
func (p Period) Matches(t Task) bool {
	if t.DueDate != nil && p.Contains(*t.DueDate) {
		return true
	}
	return p.Contains(t.CreatedAt)
}

func span(start time.Time, months int) Period {
	return Period{Start: start, End: start.AddDate(0, months, 0).Add(-time.Nanosecond)}
}

func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	return span(time.Date(year, month, 1, 0, 0, 0, 0, loc), 1)
}

// QuarterPeriod covers quarter q (1..4) of year.
func QuarterPeriod(year, q int, loc *time.Location) Period {
	return span(time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc), 3)
}

func YearPeriod(year int, loc *time.Location) Period {
	return span(time.Date(year, time.January, 1, 0, 0, 0, 0, loc), 12)
}

// QuarterOf returns the quarter (1..4) holding t.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// TasksInPeriod keeps the tasks matching p, in input order.
func TasksInPeriod(tasks []Task, p Period) []Task {
	out := make([]Task, 0)
	for _, t := range tasks {
		if p.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// PeriodBucket groups the tasks of one month or quarter.
type PeriodBucket struct {
	Label  string `json:"label"`
	Period Period `json:"period"`
	Tasks  []Task `json:"tasks"`
}

// QuarterView splits a quarter into its three months.
func QuarterView(tasks []Task, year, quarter int, loc *time.Location) ([]PeriodBucket, error) {
	if quarter < 1 || quarter > 4 {
		return nil, invalid("quarter", fmt.Sprintf("%d is outside 1..4", quarter))
	}
	out := make([]PeriodBucket, 0, 3)
	first := time.Month((quarter-1)*3 + 1)
	for m := first; m < first+3; m++ {
		p := MonthPeriod(year, m, loc)
		out = append(out, PeriodBucket{
			Label:  fmt.Sprintf("%04d-%02d", year, int(m)),
			Period: p,
			Tasks:  TasksInPeriod(tasks, p),
		})
	}
	return out, nil
}

// YearView splits a year into its four quarters.
func YearView(tasks []Task, year int, loc *time.Location) []PeriodBucket {
	out := make([]PeriodBucket, 0, 4)
	for q := 1; q <= 4; q++ {
		p := QuarterPeriod(year, q, loc)
		out = append(out, PeriodBucket{
			Label:  fmt.Sprintf("Q%d %04d", q, year),
			Period: p,
			Tasks:  TasksInPeriod(tasks, p),
		})
	}
	return out
}
