// Package router is the request dispatcher attached to the server. It wraps
// a chi mux with named routes and JSON fallbacks: a request that matches no
// route gets a 404 envelope, a known path with the wrong method gets a 405.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/response"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered route, as printed by route:list.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	routes map[string]string
	infos  []RouteInfo
	mu     sync.RWMutex
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

// New returns an empty router. It does no I/O, so it can be built and
// attached before any socket exists.
func New() *Router {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})

	return &Router{
		mux:    mux,
		routes: make(map[string]string),
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Handler() http.Handler {
	return r
}

// Use appends global middleware. chi panics if this is called after the
// first route is registered.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodGet, normalizePath(path), name, handler, middlewares...)
}

func (r *Router) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPost, normalizePath(path), name, handler, middlewares...)
}

func (r *Router) Put(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPut, normalizePath(path), name, handler, middlewares...)
}

func (r *Router) Patch(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPatch, normalizePath(path), name, handler, middlewares...)
}

func (r *Router) Delete(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodDelete, normalizePath(path), name, handler, middlewares...)
}

// HandleFunc mounts handler for every method on path.
func (r *Router) HandleFunc(path string, handler http.HandlerFunc) {
	fullPath := normalizePath(path)
	r.mux.Handle(fullPath, handler)
	r.record("*", fullPath, "")
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.routes[name]
	return path, ok
}

func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes returns every registered route sorted by path, then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	infos := append([]RouteInfo(nil), r.infos...)
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})
	return infos
}

func (r *Router) mount(method, fullPath, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	r.mux.Method(method, fullPath, chain(handler, middlewares...))
	r.record(method, fullPath, name)
}

func (r *Router) record(method, fullPath, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infos = append(r.infos, RouteInfo{Method: method, Path: fullPath, Name: name})
	if name != "" {
		r.routes[name] = fullPath
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodGet, path, name, handler, middlewares...)
}

func (g *Group) Post(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPost, path, name, handler, middlewares...)
}

func (g *Group) Put(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPut, path, name, handler, middlewares...)
}

func (g *Group) Patch(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPatch, path, name, handler, middlewares...)
}

func (g *Group) Delete(path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodDelete, path, name, handler, middlewares...)
}

func (g *Group) mount(method, path, name string, handler http.HandlerFunc, middlewares ...Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.mount(method, joinPath(g.prefix, path), name, handler, combined...)
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, "/")
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	return joinPath(path)
}
