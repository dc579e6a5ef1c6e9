package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type logFieldsKey struct{}

// logFields is filled in by inner middleware so the access log can report it.
type logFields struct {
	userID atomic.Int64
}

func setLogUser(ctx context.Context, id int64) {
	if f, ok := ctx.Value(logFieldsKey{}).(*logFields); ok {
		f.userID.Store(id)
	}
}

// RequestLog logs each request with request_id, method, path, status, duration, size
// and user_id once Authenticate has resolved the caller.
// Use after RequestID middleware so the ID is available.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fields := &logFields{}
		rw := wrap(w)
		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), logFieldsKey{}, fields)))

		attrs := []any{
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"size", rw.size,
		}
		if id := fields.userID.Load(); id != 0 {
			attrs = append(attrs, "user_id", id)
		}

		level := slog.LevelInfo
		if rw.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request", attrs...)
	})
}
