package middlewares

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
)

// AccessLog logs one line per request through logger.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
			level := slog.LevelInfo
			if p.StatusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(p.Request.Context(), level, "http request",
				"method", p.Request.Method,
				"path", p.URL.Path,
				"status", p.StatusCode,
				"bytes", p.Size,
				"remote", p.Request.RemoteAddr,
			)
		})
	}
}

// CORS allows browser clients from any origin, with credentials.
func CORS() func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowCredentials(),
	)
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.logger.Error("panic serving request", "panic", args)
}

// Recover turns handler panics into 500 responses.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger: logger}))
}

// Chain applies the outer middleware shared by every request. Recover runs
// inside AccessLog so a panicking request still gets its access line.
func Chain(logger *slog.Logger, h http.Handler) http.Handler {
	h = CORS()(h)
	h = Recover(logger)(h)
	return AccessLog(logger)(h)
}
