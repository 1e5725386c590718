package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger пишет access log и кладет логгер запроса в контекст.
// Должен стоять после chimiddleware.RequestID.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLogger := logger.With().
				Str("component", "http").
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Logger()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				event := reqLogger.Info()
				switch {
				case status >= http.StatusInternalServerError:
					event = reqLogger.Error()
				case status >= http.StatusBadRequest:
					event = reqLogger.Warn()
				}
				event.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request handled")
			}()

			next.ServeHTTP(ww, r.WithContext(reqLogger.WithContext(r.Context())))
		})
	}
}
