// Package app boots the API server.
//
//	app.New().
//	    Routes(routes.RegisterAPI).
//	    Boot(ctx, os.Stdout)
//
// Boot runs the whole bootstrap in a fixed order: build the router, create
// the server, attach the router, bind the port, announce readiness.
package app

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/config"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/internal/server"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/logger"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/metrics"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/middleware"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/router"
)

// readyFormat is the line printed to stdout once the port is bound.
const readyFormat = "Servidor on na porta %d estou pronto"

// ReadyMessage returns the readiness line for port.
func ReadyMessage(port int) string {
	return fmt.Sprintf(readyFormat, port)
}

// Application collects the route callbacks for one process.
type Application struct {
	routesFns []func(*router.Router)
	limiter   *middleware.RateLimiter
}

func New() *Application {
	return &Application{
		limiter: middleware.NewRateLimiter(config.RateLimitMax(), config.RateLimitWindow()),
	}
}

// Routes registers a route-registration callback. Callbacks run in the
// order they were added when the handler is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Boot loads config, then creates the server, attaches the router and
// listens on APP_HOST:APP_PORT. The readiness line is written to out exactly
// once, after the socket is bound. Boot blocks until ctx is cancelled or the
// server fails; a busy or out-of-range port comes back as *server.BindError.
func (a *Application) Boot(ctx context.Context, out io.Writer) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	port := config.AppPort()
	addr := server.Address(config.AppHost(), port)
	if err := server.ValidatePort(port); err != nil {
		return &server.BindError{Addr: addr, Err: err}
	}

	srv := server.New().WithTimeouts(server.Timeouts{
		ReadHeader: config.ReadHeaderTimeout(),
		Read:       config.ReadTimeout(),
		Write:      config.WriteTimeout(),
		Idle:       config.IdleTimeout(),
		Shutdown:   config.ShutdownTimeout(),
	})

	if err := srv.Attach(a.Handler()); err != nil {
		return err
	}

	logger.Debug("binding", "addr", addr, "env", config.AppEnv())

	// Idle rate-limit counters are swept for as long as the server listens.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.limiter.Run(runCtx)

	return srv.Listen(runCtx, addr, func() {
		metrics.MarkReady()
		fmt.Fprintln(out, ReadyMessage(boundPort(srv, port)))
	})
}

// boundPort reports the port the OS actually assigned, which differs from
// the configured one only when the configured port is 0.
func boundPort(srv *server.Server, configured int) int {
	if tcp, ok := srv.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return configured
}
