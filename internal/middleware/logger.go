package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/geonotify/notify-backend/pkg/logger"
)

// RequestLogger puts a request-scoped logger on the context, tagged with
// the chi request id. It should run near the top of the chain so every
// later layer logs with the same correlation attributes.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			enriched := log.With(
				"request_id", chimiddleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			ctx := logger.ToContext(r.Context(), enriched)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
