package middleware

import (
	"log/slog"
	"net/http"

	"github.com/quotedesk/quotebot/internal/api/shared"
	"github.com/quotedesk/quotebot/internal/platform/logger"
)

// Trace assigns each request a trace ID and stores a logger carrying that
// ID in the request context. Apply it early so every downstream handler
// logs with the same correlation ID.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
