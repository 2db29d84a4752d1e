package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranciscoBraga/projeto-node-react-moda-viva/pkg/router"
)

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck
	}
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestDispatch(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", text("ok"))

	rec := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestUnmatchedPathFallsBackTo404(t *testing.T) {
	r := router.New()

	rec := serve(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":404,"message":"Not found"}`, rec.Body.String())
}

func TestWrongMethodIs405(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", text("ok"))

	rec := serve(r, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGlobalMiddlewareRunsOnFallback(t *testing.T) {
	r := router.New()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Seen", "yes")
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/a", "", text("a"))

	rec := serve(r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Seen"))
}

func TestGroupsAndMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	api := r.Group("/api/", tag("api"))
	v1 := api.Group("v1", tag("v1"))
	v1.Post("/products", "products.store", text("created"), tag("route"))

	rec := serve(r, http.MethodPost, "/api/v1/products")
	assert.Equal(t, "created", rec.Body.String())
	assert.Equal(t, []string{"api", "v1", "route"}, order)
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.show", text("p"))

	path, ok := r.Path("products.show")
	require.True(t, ok)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesAreSorted(t *testing.T) {
	r := router.New()
	r.Post("/b", "b.store", text(""))
	r.Get("/b", "b.index", text(""))
	r.HandleFunc("/a", text(""))

	assert.Equal(t, []router.RouteInfo{
		{Method: "*", Path: "/a"},
		{Method: http.MethodGet, Path: "/b", Name: "b.index"},
		{Method: http.MethodPost, Path: "/b", Name: "b.store"},
	}, r.Routes())
}
