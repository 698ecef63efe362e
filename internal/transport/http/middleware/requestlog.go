package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-video-drop/internal/infrastructure/metrics"
	"github.com/go-video-drop/internal/logger"
	"github.com/rs/zerolog"
)

// WithLogger attaches a request-scoped child of log to the request context,
// tagged with the chi request id. Handlers retrieve it with logger.FromContext.
func WithLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.With().Logger()
			if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
				l.UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("request_id", reqID)
				})
			}
			next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
		})
	}
}

// AccessLog logs one line per request and records the request metrics.
// Metrics are labelled by route pattern so path parameters do not explode
// cardinality.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordRequest(r.Method, route, strconv.Itoa(status), duration.Seconds())

		logger.FromContext(r.Context()).Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Str("route", route).
			Int("status", status).
			Int("size", ww.BytesWritten()).
			Dur("duration", duration).
			Send()
	})
}
