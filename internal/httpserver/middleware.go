package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storefront/internal/service/session"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionCtxKey   = "session_id"
)

// requestLogger logs one line per request and puts a request-scoped logger in
// the request context.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		l := logger.With().Str("request_id", reqID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			evt = l.Error()
		case status >= http.StatusBadRequest:
			evt = l.Warn()
		default:
			evt = l.Info()
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int("size", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

// sessionMiddleware resolves the shopper session from its cookie, issuing a
// new one when the cookie is missing or malformed.
func sessionMiddleware(sessions sessionService, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || !session.Valid(id) {
			id = sessions.Issue()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, id, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
		c.Set(sessionCtxKey, id)
		c.Next()
	}
}
