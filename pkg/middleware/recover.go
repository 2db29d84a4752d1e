package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/logger"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/response"
)

// commitWriter remembers whether the response status has gone out.
type commitWriter struct {
	http.ResponseWriter
	committed bool
}

func (cw *commitWriter) WriteHeader(code int) {
	cw.committed = true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *commitWriter) Write(b []byte) (int, error) {
	cw.committed = true
	return cw.ResponseWriter.Write(b)
}

// Recovery turns a handler panic into a logged stack trace and a JSON 500,
// so one bad request never takes the process down. If the handler already
// started its response the status cannot change; the panic is only logged.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &commitWriter{ResponseWriter: w}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// http.ErrAbortHandler is net/http's own way to abort a response.
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"path", r.URL.Path,
				"committed", cw.committed,
			)
			if !cw.committed {
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(cw, r)
	})
}
