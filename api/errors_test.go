package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"taskflow/board"
	"taskflow/domain"
	"taskflow/notify"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantStage  string
	}{
		{name: "notFound", err: fmt.Errorf("%w: x", domain.ErrTaskNotFound), wantStatus: http.StatusNotFound, wantStage: "not_found"},
		{name: "validation", err: domain.Invalid("title", "must not be empty"), wantStatus: http.StatusBadRequest, wantStage: "validation"},
		{name: "duplicate", err: errDuplicateRequest, wantStatus: http.StatusConflict, wantStage: "duplicate"},
		{name: "noWebhook", err: notify.ErrWebhookNotConfigured, wantStatus: http.StatusBadRequest, wantStage: "webhook_not_configured"},
		{name: "saturated", err: &notify.NotifyError{URL: "u", Err: notify.ErrSaturated}, wantStatus: http.StatusServiceUnavailable, wantStage: "notify_unavailable"},
		{name: "notifierClosed", err: &notify.NotifyError{URL: "u", Err: notify.ErrClosed}, wantStatus: http.StatusServiceUnavailable, wantStage: "notify_unavailable"},
		{name: "deliveryFailed", err: &notify.NotifyError{URL: "u", Err: errors.New("connection refused")}, wantStatus: http.StatusBadGateway, wantStage: "notify_failed"},
		{name: "boardClosed", err: board.ErrServiceClosed, wantStatus: http.StatusServiceUnavailable, wantStage: "board_closed"},
		{name: "cancelled", err: context.Canceled, wantStatus: http.StatusServiceUnavailable, wantStage: "timeout"},
		{name: "other", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantStage: "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, stage := statusFor(tt.err)
			if status != tt.wantStatus || stage != tt.wantStage {
				t.Fatalf("statusFor(%v) = %d/%s, want %d/%s", tt.err, status, stage, tt.wantStatus, tt.wantStage)
			}
		})
	}
}
