package domain

import "time"

// DayMarkers flags a calendar day for highlighting.
type DayMarkers struct {
	HasTasks   bool `json:"hasTasks"`
	HasOverdue bool `json:"hasOverdue"`
	HasHigh    bool `json:"hasHigh"`
}

// CalendarDay is one cell of a month or week grid.
type CalendarDay struct {
	Date    time.Time  `json:"date"`
	Markers DayMarkers `json:"markers"`
	TaskIDs []string   `json:"taskIds"`
}

// SameDay reports whether a falls on the calendar day of b, read in b's
// location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.In(b.Location()).Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TasksOnDate returns the tasks due on the calendar day of date.
func TasksOnDate(tasks []Task, date time.Time) []Task {
	out := make([]Task, 0)
	for _, t := range tasks {
		if t.DueDate != nil && SameDay(*t.DueDate, date) {
			out = append(out, t)
		}
	}
	return out
}

// MarkersOn computes the highlight flags for the tasks due on date.
func MarkersOn(tasks []Task, date, now time.Time) DayMarkers {
	return markers(TasksOnDate(tasks, date), now)
}

func markers(dayTasks []Task, now time.Time) DayMarkers {
	m := DayMarkers{HasTasks: len(dayTasks) > 0}
	for _, t := range dayTasks {
		if t.IsOverdue(now) {
			m.HasOverdue = true
		}
		if t.Priority == PriorityHigh {
			m.HasHigh = true
		}
	}
	return m
}

// MonthCalendar builds one cell per day of the month.
func MonthCalendar(tasks []Task, year int, month time.Month, loc *time.Location, now time.Time) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()
	return calendarDays(tasks, first, days, now)
}

// WeekCalendar builds the seven cells of the Sunday-first week holding date.
func WeekCalendar(tasks []Task, date, now time.Time) []CalendarDay {
	y, m, d := date.Date()
	start := time.Date(y, m, d-int(date.Weekday()), 0, 0, 0, 0, date.Location())
	return calendarDays(tasks, start, 7, now)
}

func calendarDays(tasks []Task, start time.Time, n int, now time.Time) []CalendarDay {
	type dayKey struct {
		y int
		m time.Month
		d int
	}
	loc := start.Location()
	byDay := make(map[dayKey][]Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		y, m, d := t.DueDate.In(loc).Date()
		k := dayKey{y, m, d}
		byDay[k] = append(byDay[k], t)
	}

	out := make([]CalendarDay, 0, n)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i)
		y, m, d := date.Date()
		dayTasks := byDay[dayKey{y, m, d}]
		ids := make([]string, 0, len(dayTasks))
		for _, t := range dayTasks {
			ids = append(ids, t.ID)
		}
		out = append(out, CalendarDay{Date: date, Markers: markers(dayTasks, now), TaskIDs: ids})
	}
	return out
}
