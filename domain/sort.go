package domain

import (
	"sort"
	"strings"
)

// SortKey selects the ordering of the timeline.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortUpdated  SortKey = "updated"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
)

// ParseSortKey maps user input to a SortKey. Empty input means SortCreated.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortCreated, nil
	case SortCreated, SortUpdated, SortDue, SortPriority:
		return k, nil
	}
	return "", invalid("sort", "unknown sort key "+s)
}

// Compare orders a before b (negative), after b (positive) or neither (zero)
// under key.
func Compare(a, b Task, key SortKey) int {
	switch key {
	case SortCreated:
		return b.CreatedAt.Compare(a.CreatedAt)
	case SortUpdated:
		return b.UpdatedAt.Compare(a.UpdatedAt)
	case SortDue:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		return a.DueDate.Compare(*b.DueDate)
	case SortPriority:
		return b.Priority.Rank() - a.Priority.Rank()
	}
	return 0
}

// SortTasks returns a stably sorted copy of tasks.
func SortTasks(tasks []Task, key SortKey) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool { return Compare(out[i], out[j], key) < 0 })
	return out
}
