package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"taskflow/domain"
)

func getTimeline(b Board, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, err := domain.ParseSortKey(c.QueryParam("sort"))
		if err != nil {
			return writeError(c, err)
		}
		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}

		now := clock()
		sorted := domain.SortTasks(tasks, key)
		items := make([]timelineItem, 0, len(sorted))
		for _, t := range sorted {
			item := timelineItem{Task: t, Created: domain.Relative(t.CreatedAt, now)}
			if u, ok := t.Urgency(now); ok {
				item.Urgency = u
			}
			if t.DueDate != nil {
				rel := domain.Relative(*t.DueDate, now)
				item.Due = &rel
			}
			items = append(items, item)
		}
		metricsFrom(c).SetTasksReturned(len(items))
		return respond(c, http.StatusOK, timelineResponse{Sort: key, Items: items})
	}
}

func getCalendar(b Board, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := clock()
		mode := strings.TrimSpace(c.QueryParam("mode"))
		if mode == "" {
			mode = "month"
		}
		if mode != "month" && mode != "week" {
			return writeError(c, domain.Invalid("mode", "want month or week"))
		}

		date := now
		if v := strings.TrimSpace(c.QueryParam("date")); v != "" {
			d, err := time.ParseInLocation(time.DateOnly, v, now.Location())
			if err != nil {
				return writeError(c, domain.Invalid("date", "want YYYY-MM-DD"))
			}
			date = d
		}

		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}

		var days []domain.CalendarDay
		if mode == "week" {
			days = domain.WeekCalendar(tasks, date, now)
		} else {
			days = domain.MonthCalendar(tasks, date.Year(), date.Month(), date.Location(), now)
		}
		selected := domain.TasksOnDate(tasks, date)
		metricsFrom(c).SetTasksReturned(len(selected))
		return respond(c, http.StatusOK, calendarResponse{
			Mode:     mode,
			Date:     date.Format(time.DateOnly),
			Days:     days,
			Selected: selected,
		})
	}
}

func getQuarter(b Board, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := clock()
		year, err := intQuery(c, "year", now.Year())
		if err != nil {
			return writeError(c, err)
		}
		quarter, err := intQuery(c, "quarter", domain.QuarterOf(now))
		if err != nil {
			return writeError(c, err)
		}
		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}
		buckets, err := domain.QuarterView(tasks, year, quarter, now.Location())
		if err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, periodsResponse{Year: year, Quarter: quarter, Buckets: buckets})
	}
}

func getYear(b Board, clock func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := clock()
		year, err := intQuery(c, "year", now.Year())
		if err != nil {
			return writeError(c, err)
		}
		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}
		return respond(c, http.StatusOK, periodsResponse{Year: year, Buckets: domain.YearView(tasks, year, now.Location())})
	}
}

func getGantt(b Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := timed(c, b.Tasks)
		if err != nil {
			return writeError(c, err)
		}
		bars := domain.GanttLayout(tasks)
		metricsFrom(c).SetTasksReturned(len(bars))
		return respond(c, http.StatusOK, ganttResponse{WindowDays: domain.GanttWindowDays, Bars: bars})
	}
}

func intQuery(c echo.Context, name string, def int) (int, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.Invalid(name, "not a number")
	}
	return n, nil
}
