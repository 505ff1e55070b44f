package domain

import (
	"math"
	"time"
)

const day = 24 * time.Hour

const (
	// CardSoonDays is the window in which a card deadline reads as "soon".
	CardSoonDays = 2
	// UpcomingDays is the window of the calendar legend and the deadline
	// webhook. It is wider than CardSoonDays on purpose.
	UpcomingDays = 7
)

// Urgency is the deadline bucket of a task.
type Urgency string

const (
	UrgencyCompleted Urgency = "completed"
	UrgencyOverdue   Urgency = "overdue"
	UrgencyToday     Urgency = "today"
	UrgencySoon      Urgency = "soon"
	UrgencyNormal    Urgency = "normal"
)

// DiffDays is the number of days until due, rounded up.
func DiffDays(due, now time.Time) int {
	d := math.Ceil(float64(due.Sub(now)) / float64(day))
	if d == 0 {
		// ceil of a small negative fraction is -0
		return 0
	}
	return int(d)
}

// Classify buckets a deadline for display on a card. A done status wins over
// any date.
func Classify(due time.Time, status Status, now time.Time) Urgency {
	if status == StatusDone {
		return UrgencyCompleted
	}
	diff := DiffDays(due, now)
	switch {
	case diff < 0:
		return UrgencyOverdue
	case diff == 0:
		return UrgencyToday
	case diff <= CardSoonDays:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}

// Urgency classifies t. The second result is false when the task has no due
// date and is not done, where no bucket applies.
func (t Task) Urgency(now time.Time) (Urgency, bool) {
	if t.Status == StatusDone {
		return UrgencyCompleted, true
	}
	if t.DueDate == nil {
		return "", false
	}
	return Classify(*t.DueDate, t.Status, now), true
}

// IsUpcoming reports whether due falls within the next UpcomingDays days,
// today included.
func IsUpcoming(due, now time.Time) bool {
	diff := DiffDays(due, now)
	return diff >= 0 && diff <= UpcomingDays
}

// IsOverdue reports whether an open task has passed its deadline.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}
