// Package logger provides a structured, levelled logger built on log/slog.
//
// Output goes to stderr: stdout is reserved for the server's readiness line.
// Handlers that need the request ID attached should use WithCtx:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", id)
//	// → time=... level=INFO msg="order created" request_id=a1b2c3d4 order_id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/config"
)

var L *slog.Logger

func init() {
	Configure(os.Stderr, config.IsProduction())
}

// Configure replaces the base logger. Production gets JSON at INFO for log
// aggregators; everything else gets human-readable text at DEBUG.
func Configure(w io.Writer, production bool) {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx by the Logger
// middleware, or the base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
