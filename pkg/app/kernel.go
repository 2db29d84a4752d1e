package app

import (
	"net/http"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/config"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/metrics"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/middleware"
	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/router"
)

// Handler builds the router: global middleware, /metrics, then every route
// callback. Building it does no I/O.
func (a *Application) Handler() http.Handler {
	return a.buildRouter()
}

func (a *Application) buildRouter() *router.Router {
	r := router.New()

	// Outermost first: metrics sees total latency, recovery sits outside
	// everything that may panic, the request ID exists before anything logs.
	// Preflights are answered by CORS before they count against the limit.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSAllowedOrigins()...)))
	r.Use(a.limiter.Middleware())

	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r
}

// RouteList returns the routes the handler would serve.
func (a *Application) RouteList() []router.RouteInfo {
	return a.buildRouter().Routes()
}
