package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/fkhayef/fellowship/internal/logging"
)

// RequestLogger logs one line per request with status, duration and caller
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}

			switch {
			case ww.Status() >= 500:
				logger.Error(r.Context(), "request failed", args...)
			case ww.Status() >= 400:
				logger.Warn(r.Context(), "request rejected", args...)
			default:
				logger.Info(r.Context(), "request handled", args...)
			}
		})
	}
}
