package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger writes one access log line per request, logs handler errors
// and recovers from panics.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := requestID(c)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				event(log, c, start, zerolog.ErrorLevel).
					Err(err).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")

				response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				event(log, c, start, zerolog.ErrorLevel).Err(err.Err).Msg("request error")
			}

			level := zerolog.InfoLevel
			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				level = zerolog.ErrorLevel
			case status >= http.StatusBadRequest:
				level = zerolog.WarnLevel
			}
			event(log, c, start, level).Msg("request")
		}()

		c.Next()
	}
}

func event(log *logger.Logger, c *gin.Context, start time.Time, level zerolog.Level) *zerolog.Event {
	zl := log.Zerolog()
	return zl.WithLevel(level).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", UserID(c)).
		Str("role", c.GetString(CtxRole)).
		Str("request_id", c.GetString("request_id"))
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader(HeaderRequestID)
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
