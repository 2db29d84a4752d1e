package middleware

import (
	"net/http"
	"time"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/logger"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Logger writes one "request" line per request and injects a logger tagged
// with request_id into the context. Mount it after RequestID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", RequestIDFrom(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		reqLog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}
