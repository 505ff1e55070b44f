package domain

import (
	"testing"
	"time"
)

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortTasks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []Task{
		{ID: "a", Priority: PriorityLow, CreatedAt: base, UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "b", Priority: PriorityHigh, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour), DueDate: ptrTime(base.AddDate(0, 0, 3))},
		{ID: "c", Priority: PriorityMedium, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Priority: PriorityHigh, CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour), DueDate: ptrTime(base.AddDate(0, 0, 1))},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{key: SortCreated, want: []string{"d", "c", "b", "a"}},
		{key: SortUpdated, want: []string{"a", "d", "c", "b"}},
		{key: SortDue, want: []string{"d", "b", "a", "c"}},
		{key: SortPriority, want: []string{"b", "d", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := ids(SortTasks(tasks, tt.key))
			if !equalIDs(got, tt.want) {
				t.Fatalf("sort by %s = %v, want %v", tt.key, got, tt.want)
			}
		})
	}

	if got := ids(tasks); !equalIDs(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("SortTasks mutated its input: %v", got)
	}
}

func TestPriorityRankIsTotal(t *testing.T) {
	if PriorityHigh.Rank() != 3 || PriorityMedium.Rank() != 2 || PriorityLow.Rank() != 1 {
		t.Fatalf("unexpected ranks: %d %d %d", PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(""); err != nil || k != SortCreated {
		t.Fatalf("expected default created, got %q %v", k, err)
	}
	if k, err := ParseSortKey(" Due "); err != nil || k != SortDue {
		t.Fatalf("expected due, got %q %v", k, err)
	}
	if _, err := ParseSortKey("alphabetical"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
