package domain

import "time"

// RelativeKind names how a date reads relative to now.
type RelativeKind string

const (
	RelativeToday     RelativeKind = "today"
	RelativeYesterday RelativeKind = "yesterday"
	RelativeTomorrow  RelativeKind = "tomorrow"
	RelativeInDays    RelativeKind = "in_days"
	RelativeDaysAgo   RelativeKind = "days_ago"
	RelativeAbsolute  RelativeKind = "absolute"
)

// RelativeDate is a presentation-neutral relative label; the UI renders the
// words.
type RelativeDate struct {
	Kind RelativeKind `json:"kind"`
	Days int          `json:"days,omitempty"`
	Date time.Time    `json:"date"`
}

// Relative labels date against now. Dates within a week either side get a
// day count; anything further is absolute.
func Relative(date, now time.Time) RelativeDate {
	r := RelativeDate{Kind: RelativeAbsolute, Date: date}
	switch {
	case SameDay(date, now):
		r.Kind = RelativeToday
		return r
	case SameDay(date, now.AddDate(0, 0, -1)):
		r.Kind = RelativeYesterday
		return r
	case SameDay(date, now.AddDate(0, 0, 1)):
		r.Kind = RelativeTomorrow
		return r
	}
	diff := wholeDays(date.Sub(now))
	switch {
	case diff > 0 && diff <= 7:
		r.Kind, r.Days = RelativeInDays, diff
	case diff < 0 && diff >= -7:
		r.Kind, r.Days = RelativeDaysAgo, -diff
	}
	return r
}
