package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/board"
	"taskflow/domain"
	"taskflow/notify"
)

var errDuplicateRequest = errors.New("duplicate request")

// statusFor maps an error to its HTTP status and the stage recorded in the
// request metrics.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "not_found"
	case domain.IsValidation(err):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, errDuplicateRequest):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, notify.ErrWebhookNotConfigured):
		return http.StatusBadRequest, "webhook_not_configured"
	case errors.Is(err, notify.ErrSaturated), errors.Is(err, notify.ErrClosed):
		return http.StatusServiceUnavailable, "notify_unavailable"
	case isNotifyError(err):
		return http.StatusBadGateway, "notify_failed"
	case errors.Is(err, board.ErrServiceClosed):
		return http.StatusServiceUnavailable, "board_closed"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func isNotifyError(err error) bool {
	var nerr *notify.NotifyError
	return errors.As(err, &nerr)
}

func writeError(c echo.Context, err error) error {
	status, stage := statusFor(err)
	m := metricsFrom(c)
	m.SetErrorStage(stage)
	m.SetError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(status, errorResponse{Error: msg, Stage: stage})
}

func badRequest(c echo.Context, stage, msg string) error {
	metricsFrom(c).SetErrorStage(stage)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Stage: stage})
}
