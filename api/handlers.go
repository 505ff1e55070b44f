package api

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskflow/domain"
)

// Deps are the collaborators served over HTTP. Deduper may be nil, which
// disables Idempotency-Key handling.
type Deps struct {
	Board    Board
	Settings SettingsStore
	Deduper  Deduper
	Notifier Notifier
	Log      *log.Logger

	BoardID           string
	DefaultWebhookURL string
	// Location is the zone calendar days and periods are read in.
	Location *time.Location
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Board == nil || d.Settings == nil || d.Notifier == nil {
		panic("api.Register: board, settings and notifier are required")
	}
	if d.Log == nil {
		panic("Logger is not initialized")
	}
	if d.BoardID == "" {
		d.BoardID = "default"
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, d Deps) {
	d = d.withDefaults()
	e.JSONSerializer = sonicSerializer{}

	g := e.Group("/api", ObserveRequests(d.Log), GzipRequestMiddleware(requestMaxSize))
	g.GET("/columns", getColumns(d.Board))
	g.GET("/tasks/:id", getTask(d.Board))
	g.POST("/columns/:status/tasks", createTask(d.Board, d.Deduper, d.BoardID, d.Log))
	g.PUT("/tasks/:id", editTask(d.Board))
	g.POST("/tasks/:id/move", moveTask(d.Board))
	g.DELETE("/tasks/:id", removeTask(d.Board))

	g.GET("/views/timeline", getTimeline(d.Board, d.clock))
	g.GET("/views/calendar", getCalendar(d.Board, d.clock))
	g.GET("/views/quarter", getQuarter(d.Board, d.clock))
	g.GET("/views/year", getYear(d.Board, d.clock))
	g.GET("/views/gantt", getGantt(d.Board))

	g.GET("/settings", getSettings(d.Settings, d.BoardID, d.DefaultWebhookURL))
	g.PUT("/settings", putSettings(d.Settings, d.BoardID))
	g.POST("/notify", postNotify(d.Board, d.Settings, d.Notifier, d.BoardID, d.DefaultWebhookURL, d.Now))
	g.GET("/stream", streamEvents(d.Board, d.Log))

	e.GET("/healthz", healthz(d.Board))
}

// clock returns the current time in the view location.
func (d Deps) clock() time.Time {
	return d.Now().In(d.Location)
}

func healthz(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := b.Columns(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// timed runs a board call and records its duration.
func timed[T any](c echo.Context, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	out, err := fn(c.Request().Context())
	metricsFrom(c).ObserveBoard(time.Since(start))
	return out, err
}

func respond(c echo.Context, status int, body any) error {
	start := time.Now()
	err := c.JSON(status, body)
	m := metricsFrom(c)
	m.ObserveEncode(time.Since(start))
	if err != nil {
		m.SetErrorStage("encode_response")
	}
	return err
}

func getColumns(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		cols, err := timed(c, b.Columns)
		if err != nil {
			return writeError(c, err)
		}
		n := 0
		for _, col := range cols {
			n += len(col.Tasks)
		}
		metricsFrom(c).SetTasksReturned(n)
		return respond(c, http.StatusOK, columnsResponse{Columns: cols})
	}
}

func getTask(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		metricsFrom(c).SetTaskID(id)
		task, err := timed(c, func(ctx context.Context) (domain.Task, error) { return b.Get(ctx, id) })
		if err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, task)
	}
}

func createTask(b Board, dedupe Deduper, boardID string, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		status := domain.Status(c.Param("status"))

		var fields domain.TaskFields
		if err := decodeBody(c, &fields); err != nil {
			return badRequest(c, "decode", "invalid body")
		}

		key := strings.TrimSpace(c.Request().Header.Get(idempotencyKeyHeader))
		if dedupe == nil {
			key = ""
		}
		if key != "" {
			added, err := dedupe.Add(ctx, boardID, key)
			if err != nil {
				logger.WithError(err).WithField("key", key).Error("dedupe add failed")
				m := metricsFrom(c)
				m.SetErrorStage("dedupe")
				m.SetError(err)
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error", Stage: "dedupe"})
			}
			if !added {
				return writeError(c, errDuplicateRequest)
			}
		}

		task, err := timed(c, func(ctx context.Context) (domain.Task, error) { return b.Add(ctx, status, fields) })
		if err != nil {
			if key != "" {
				if rerr := dedupe.Remove(context.WithoutCancel(ctx), boardID, key); rerr != nil {
					logger.Errorf("dedupe rollback failed, err: %v, key: %s, board: %s", rerr, key, boardID)
				}
			}
			return writeError(c, err)
		}
		metricsFrom(c).SetTaskID(task.ID)
		return respond(c, http.StatusCreated, task)
	}
}

func editTask(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		metricsFrom(c).SetTaskID(id)

		index := -1
		if v := strings.TrimSpace(c.QueryParam("index")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return badRequest(c, "invalid_index", "invalid index")
			}
			index = n
		}

		var fields domain.TaskFields
		if err := decodeBody(c, &fields); err != nil {
			return badRequest(c, "decode", "invalid body")
		}

		task, err := timed(c, func(ctx context.Context) (domain.Task, error) {
			if index < 0 {
				return b.Edit(ctx, id, fields)
			}
			return b.EditAt(ctx, id, fields, index)
		})
		if err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, task)
	}
}

func moveTask(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		metricsFrom(c).SetTaskID(id)

		var req moveRequest
		if err := decodeBody(c, &req); err != nil {
			return badRequest(c, "decode", "invalid body")
		}
		task, err := timed(c, func(ctx context.Context) (domain.Task, error) {
			return b.Move(ctx, id, req.Status, req.Index)
		})
		if err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, task)
	}
}

func removeTask(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		metricsFrom(c).SetTaskID(id)
		if _, err := timed(c, func(ctx context.Context) (domain.Task, error) { return b.Remove(ctx, id) }); err != nil {
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func getSettings(store SettingsStore, boardID, fallback string) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings, err := store.FetchSettings(c.Request().Context(), boardID)
		if err != nil {
			return writeError(c, err)
		}
		if settings.WebhookURL == "" {
			settings.WebhookURL = fallback
		}
		return respond(c, http.StatusOK, settings)
	}
}

func putSettings(store SettingsStore, boardID string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var settings domain.Settings
		if err := decodeBody(c, &settings); err != nil {
			return badRequest(c, "decode", "invalid body")
		}
		settings = settings.Normalize()
		if err := store.SaveSettings(c.Request().Context(), boardID, settings); err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, settings)
	}
}

func postNotify(b Board, store SettingsStore, n Notifier, boardID, fallback string, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		settings, err := store.FetchSettings(ctx, boardID)
		if err != nil {
			return writeError(c, err)
		}
		url := settings.WebhookURL
		if url == "" {
			url = fallback
		}

		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}
		metricsFrom(c).SetTasksReturned(len(tasks))

		summary, results, err := n.CheckDeadlines(url, tasks, now())
		if err != nil {
			return writeError(c, err)
		}
		select {
		case res := <-results:
			if res.Err != nil {
				return writeError(c, res.Err)
			}
		case <-ctx.Done():
			return writeError(c, ctx.Err())
		}
		return respond(c, http.StatusAccepted, notifyResponse{Timestamp: summary.Timestamp, Summary: summary.Summary})
	}
}
