package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"fairworkly/internal/requestctx"
	"fairworkly/internal/transport/http/api"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))
				api.Fail(w, http.StatusInternalServerError, "INTERNAL",
					"internal server error", requestctx.GetRequestID(r.Context()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
