package api

import (
	"context"
	"time"

	"taskflow/domain"
	"taskflow/notify"
)

// Board is the task store the handlers drive.
type Board interface {
	Add(ctx context.Context, status domain.Status, fields domain.TaskFields) (domain.Task, error)
	Edit(ctx context.Context, id string, fields domain.TaskFields) (domain.Task, error)
	EditAt(ctx context.Context, id string, fields domain.TaskFields, index int) (domain.Task, error)
	Move(ctx context.Context, id string, dest domain.Status, index int) (domain.Task, error)
	Remove(ctx context.Context, id string) (domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	Columns(ctx context.Context) ([]domain.Column, error)
	Tasks(ctx context.Context) ([]domain.Task, error)
	Watch(ctx context.Context, buffer int) ([]domain.Column, <-chan domain.BoardEvent, func(), error)
}

// SettingsStore persists the board settings.
type SettingsStore interface {
	FetchSettings(ctx context.Context, boardID string) (domain.Settings, error)
	SaveSettings(ctx context.Context, boardID string, settings domain.Settings) error
}

// Deduper prevents processing of duplicate requests.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added key, used when processing fails.
	Remove(ctx context.Context, scope, key string) error
}

// Notifier sends deadline summaries to a webhook.
type Notifier interface {
	CheckDeadlines(url string, tasks []domain.Task, now time.Time) (notify.Summary, <-chan notify.Result, error)
}
