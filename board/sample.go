package board

import (
	"time"

	"taskflow/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleTasks returns the demonstration tasks a fresh board can be seeded
// with.
func SampleTasks() []domain.Task {
	return []domain.Task{
		{
			Title:       "Set up the project",
			Description: "Install dependencies and lay out the initial board structure",
			Status:      domain.StatusDone,
			Priority:    domain.PriorityHigh,
			Evolutions: []domain.Evolution{
				{Content: "Project created and initial structure in place", CreatedAt: day("2024-01-15")},
			},
			Attachments: []domain.Attachment{},
			Results:     "Project set up, all dependencies installed",
			Tests:       "Build and dev server checks executed",
			Research:    "Framework and build tool documentation reviewed",
			CreatedAt:   day("2024-01-15"),
			UpdatedAt:   day("2024-01-15"),
		},
		{
			Title:       "Implement drag and drop",
			Description: "Let tasks be dragged between columns",
			Status:      domain.StatusProgress,
			Priority:    domain.PriorityMedium,
			Evolutions: []domain.Evolution{
				{Content: "Drag and drop library installed", CreatedAt: day("2024-01-16")},
			},
			Attachments: []domain.Attachment{},
			Results:     "Partially implemented",
			Tests:       "Basic drag checks passing",
			Research:    "Compared drag and drop libraries",
			CreatedAt:   day("2024-01-16"),
			UpdatedAt:   day("2024-01-16"),
		},
		{
			Title:       "Build the user interface",
			Description: "Develop the visual components and responsive layout",
			Status:      domain.StatusTodo,
			Priority:    domain.PriorityMedium,
			Evolutions:  []domain.Evolution{},
			Attachments: []domain.Attachment{},
			CreatedAt:   day("2024-01-17"),
			UpdatedAt:   day("2024-01-17"),
		},
		{
			Title:       "Add reporting",
			Description: "Generate weekly and monthly reports",
			Status:      domain.StatusTodo,
			Priority:    domain.PriorityLow,
			Evolutions:  []domain.Evolution{},
			Attachments: []domain.Attachment{},
			CreatedAt:   day("2024-01-18"),
			UpdatedAt:   day("2024-01-18"),
		},
	}
}
