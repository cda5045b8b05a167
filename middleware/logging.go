package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashdeck-api/utils"
)

// Logging writes one access log line per request.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", utils.RequestID(r.Context())),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("Request failed", fields...)
			case rec.status >= http.StatusBadRequest:
				logger.Warn("Request rejected", fields...)
			default:
				logger.Info("Request handled", fields...)
			}
		})
	}
}
