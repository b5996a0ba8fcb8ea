package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/response"
)

// Recovery returns a middleware that recovers from panics, logs them and reports them to Sentry.
// Reporting is a no-op when Sentry was not initialised.
func Recovery(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorw("panic recovered",
					"error", rec,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"client_ip", c.ClientIP(),
					"stack", string(debug.Stack()),
				)

				reportPanic(c, rec)

				response.Error(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
			}
		}()

		c.Next()
	}
}

func reportPanic(c *gin.Context, rec interface{}) {
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", "panic")
		scope.SetTag("method", c.Request.Method)
		scope.SetExtra("path", c.Request.URL.Path)
		if actorID, ok := ActorID(c); ok {
			scope.SetUser(sentry.User{ID: actorID})
		}
		scope.SetRequest(c.Request)

		if err, ok := rec.(error); ok {
			hub.CaptureException(err)
		} else {
			hub.CaptureException(fmt.Errorf("panic: %v", rec))
		}
	})
	hub.Flush(2 * time.Second)
}
