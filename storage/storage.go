package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"taskflow/domain"
)

// settingsPartition holds one settings row per board.
const settingsPartition = "board"

type entityTable interface {
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
}

type messageQueue interface {
	EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error)
}

// Storage keeps board settings in Azure Table storage and publishes board
// events to an Azure Storage queue.
type Storage struct {
	source        string
	settingsTable entityTable
	eventQueue    messageQueue
}

// New creates a Storage instance from the given connection string. An empty
// eventsQueue disables event publishing.
func New(connStr, settingsTable, eventsQueue, source string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, fmt.Errorf("tables client: %w", err)
	}
	s := &Storage{source: source, settingsTable: svc.NewClient(settingsTable)}

	if eventsQueue == "" {
		return s, nil
	}
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	q, err := azqueue.NewQueueClientFromConnectionString(connStr, eventsQueue, &queueClientOptions)
	if err != nil {
		return nil, fmt.Errorf("queue client: %w", err)
	}
	s.eventQueue = q
	return s, nil
}

type settingsEntity struct {
	aztables.Entity
	WebhookUrl string `json:"WebhookUrl"`
}

func encodeSettingsEntity(boardID string, settings domain.Settings) ([]byte, error) {
	return json.Marshal(settingsEntity{
		Entity:     aztables.Entity{PartitionKey: settingsPartition, RowKey: boardID},
		WebhookUrl: settings.WebhookURL,
	})
}

func decodeSettingsEntity(data []byte) (domain.Settings, error) {
	var raw settingsEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Settings{}, err
	}
	return domain.Settings{WebhookURL: raw.WebhookUrl}, nil
}

// FetchSettings returns the saved settings of a board. A board that never
// saved any gets zero settings.
func (s *Storage) FetchSettings(ctx context.Context, boardID string) (domain.Settings, error) {
	ent, err := s.settingsTable.GetEntity(ctx, settingsPartition, boardID, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("fetch settings: %w", err)
	}
	return decodeSettingsEntity(ent.Value)
}

// SaveSettings replaces the settings row of a board.
func (s *Storage) SaveSettings(ctx context.Context, boardID string, settings domain.Settings) error {
	payload, err := encodeSettingsEntity(boardID, settings)
	if err != nil {
		return err
	}
	mode := aztables.UpdateModeReplace
	if _, err := s.settingsTable.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: mode}); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// PublishEvent enqueues one board event. It does nothing when no queue is
// configured.
func (s *Storage) PublishEvent(ctx context.Context, ev domain.BoardEvent) error {
	if s.eventQueue == nil {
		return nil
	}
	data, err := encodeEnvelope(s.source, ev)
	if err != nil {
		return err
	}
	if _, err := s.eventQueue.EnqueueMessage(ctx, string(data), nil); err != nil {
		return fmt.Errorf("enqueue event %s: %w", ev.ID, err)
	}
	return nil
}

func encodeEnvelope(source string, ev domain.BoardEvent) ([]byte, error) {
	return json.Marshal(domain.EventEnvelope{Source: source, Event: ev})
}
