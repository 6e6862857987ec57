package api

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/AbdulRehman-Syed/task-manager/domain"
)

const streamKeepAlive = 30 * time.Second

// streamTasks pushes the full sorted task list to the renderer over SSE:
// once on connect and again after every store mutation, so the view redraws
// without polling. Filtering stays client-side.
func streamTasks(st Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
		c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
		c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
		c.Response().Header().Set("X-Accel-Buffering", "no")
		flusher, ok := c.Response().Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "stream unsupported")
		}

		changes, cancel := st.Subscribe()
		defer cancel()

		clientID := uuid.NewString()
		if logger != nil {
			logger.WithField("client_id", clientID).Debug("renderer subscribed")
			defer logger.WithField("client_id", clientID).Debug("renderer disconnected")
		}

		push := func() error {
			tasks := st.Query(domain.Filter{})
			data, err := sonic.Marshal(viewsAt(tasks, time.Now()))
			if err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("data: ")); err != nil {
				return err
			}
			if _, err := c.Response().Write(data); err != nil {
				return err
			}
			if _, err := c.Response().Write([]byte("\n\n")); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}

		if err := push(); err != nil {
			return nil
		}

		ctx := c.Request().Context()
		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes:
				if err := push(); err != nil {
					return nil
				}
			case <-ticker.C:
				if err := push(); err != nil {
					return nil
				}
			}
		}
	}
}
