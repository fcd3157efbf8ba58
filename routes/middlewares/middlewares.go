package middlewares

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/httpx"
	"github.com/nanotronics/survey-server/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID echoes the client-supplied request id, or generates one,
// on every response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "SAMEORIGIN")
		header.Set("X-XSS-Protection", "1; mode=block")

		next.ServeHTTP(w, r)
	})
}

// Logger writes one access-log line per request. Health checks are
// skipped to reduce noise.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}

		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Infof("%s %s - %d - %.3fs", r.Method, r.URL.Path, m.Code, m.Duration.Seconds())
	})
}

// RateLimit rejects clients that exceed the configured request count
// per window with 429 and a retry_after hint.
func RateLimit(app app.App) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !app.RateLimitEnabled {
				next.ServeHTTP(w, r)
				return
			}

			if !app.Limiter.Allow(httpx.ClientIP(r)) {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]any{
					"error":       "Rate limit exceeded",
					"message":     "Too many requests. Please try again later.",
					"retry_after": app.RateLimitWindow,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
