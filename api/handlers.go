package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/AbdulRehman-Syed/task-manager/domain"
	"github.com/AbdulRehman-Syed/task-manager/export"
	"github.com/AbdulRehman-Syed/task-manager/store"
)

const requestBodyMaxSize = 64 * 1024 // 64 KiB

const idempotencyHeader = "Idempotency-Key"

// Register wires up all routes on the provided Echo instance. The deduper
// may be nil when no Redis is configured; duplicate-submit protection is
// then skipped.
func Register(e *echo.Echo, st Store, deduper Deduper, logger *log.Logger) {
	e.GET("/api/tasks", getTasks(st, logger))
	e.POST("/api/tasks", createTask(st, deduper))
	e.PUT("/api/tasks/order", reorderTasks(st))
	e.PUT("/api/tasks/:id", updateTask(st))
	e.DELETE("/api/tasks/:id", deleteTask(st))
	e.POST("/api/tasks/:id/toggle", toggleTask(st))
	e.GET("/api/export", exportTasks(st))
	e.GET("/api/events", streamTasks(st, logger))
	e.GET("/healthz", healthz())
}

// taskPayload carries the editable fields of a task as submitted by the
// renderer's create/edit form.
type taskPayload struct {
	Title       string          `json:"title"`
	Category    domain.Category `json:"category"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *domain.Date    `json:"dueDate"`
	Description string          `json:"description"`
}

func (p taskPayload) fields() store.Fields {
	return store.Fields{
		Title:       p.Title,
		Category:    p.Category,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		Description: p.Description,
	}
}

// taskView is a task as handed to the renderer, annotated with the overdue
// flag computed at evaluation time.
type taskView struct {
	domain.Task
	Overdue bool `json:"overdue"`
}

func viewsAt(tasks []domain.Task, now time.Time) []taskView {
	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = taskView{Task: t, Overdue: t.OverdueAt(now)}
	}
	return views
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getTasks(st Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newTaskRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		filter := domain.Filter{
			Search:   c.QueryParam("search"),
			Category: c.QueryParam("category"),
			Priority: c.QueryParam("priority"),
			Status:   domain.Status(c.QueryParam("status")),
		}
		metrics.SetFiltered(filter != domain.Filter{})

		queryStart := time.Now()
		tasks := st.Query(filter)
		metrics.ObserveQuery(time.Since(queryStart))
		metrics.SetTasksReturned(len(tasks))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, viewsAt(tasks, time.Now()))
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func createTask(st Store, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var payload taskPayload
		if err := decodeBody(c, &payload); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(payload.Title) == "" {
			return c.String(http.StatusBadRequest, "title is required")
		}

		key := c.Request().Header.Get(idempotencyHeader)
		if key == "" {
			key = uuid.NewString()
		} else if deduper != nil {
			added, err := deduper.Add(ctx, key)
			if err != nil {
				// Dedupe is best effort; a Redis hiccup must not block the user.
				c.Logger().Warnf("idempotency check failed: %v", err)
			} else if !added {
				return c.String(http.StatusConflict, "duplicate submission")
			}
		}
		c.Response().Header().Set(idempotencyHeader, key)

		created := st.Create(ctx, payload.fields())
		return c.JSON(http.StatusCreated, taskView{Task: created, Overdue: created.OverdueAt(time.Now())})
	}
}

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", c.Param("id"))
	}
	return id, nil
}

func updateTask(st Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := taskID(c)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		var payload taskPayload
		if err := decodeBody(c, &payload); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(payload.Title) == "" {
			return c.String(http.StatusBadRequest, "title is required")
		}
		st.Update(c.Request().Context(), id, payload.fields())
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteTask(st Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := taskID(c)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		st.Delete(c.Request().Context(), id)
		return c.NoContent(http.StatusNoContent)
	}
}

func toggleTask(st Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := taskID(c)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		st.ToggleCompletion(c.Request().Context(), id)
		return c.NoContent(http.StatusNoContent)
	}
}

func reorderTasks(st Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var ids []int64
		if err := decodeBody(c, &ids); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		st.Reorder(c.Request().Context(), ids)
		return c.NoContent(http.StatusNoContent)
	}
}

func exportTasks(st Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := export.Render(st.Snapshot(), c.QueryParam("format"))
		if err != nil {
			if errors.Is(err, export.ErrUnknownFormat) {
				return c.String(http.StatusBadRequest, err.Error())
			}
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, "export failed: "+err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		return c.Blob(http.StatusOK, res.ContentType, res.Data)
	}
}
