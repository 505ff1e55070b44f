package api

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	streamBuffer    = 32
	streamKeepalive = 15 * time.Second
)

// streamEvents sends a snapshot of the columns, then every board event made
// after it, as server-sent events.
func streamEvents(b Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}
		ctx := c.Request().Context()

		start := time.Now()
		cols, events, cancel, err := b.Watch(ctx, streamBuffer)
		metricsFrom(c).ObserveBoard(time.Since(start))
		if err != nil {
			return writeError(c, err)
		}
		defer cancel()

		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		c.Response().WriteHeader(http.StatusOK)

		if err := writeSSE(c.Response(), "snapshot", columnsResponse{Columns: cols}); err != nil {
			logger.WithError(err).Debug("stream write failed")
			return nil
		}
		flusher.Flush()

		ticker := time.NewTicker(streamKeepalive)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := c.Response().Write([]byte(": keepalive\n\n")); err != nil {
					return nil
				}
				flusher.Flush()
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if err := writeSSE(c.Response(), string(ev.Type), ev); err != nil {
					logger.WithError(err).Debug("stream write failed")
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w io.Writer, event string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + event + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
