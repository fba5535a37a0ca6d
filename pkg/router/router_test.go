package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/giftwheels/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroup_NestedPrefixAndMiddleware(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("api"))
	admin := api.Group("admin", tag("admin"))
	admin.Put("/products/{id}/stock", "admin.products.stock", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(router.Param(req, "id")))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/products/7/stock", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Body.String())
	assert.Equal(t, []string{"api", "admin"}, rec.Header().Values("X-Chain"))
}

func TestRouter_URL(t *testing.T) {
	r := router.New()
	r.Group("/api").Get("/products/{id}", "products.show", func(http.ResponseWriter, *http.Request) {})

	url, err := r.URL("products.show", map[string]string{"id": "3"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/3", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRouter_Routes(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/b", "b.store", noop)
	r.Get("/b", "b.index", noop)
	r.Get("/a", "", noop)

	assert.Equal(t, []router.RouteInfo{
		{Method: "GET", Path: "/a"},
		{Method: "GET", Path: "/b", Name: "b.index"},
		{Method: "POST", Path: "/b", Name: "b.store"},
	}, r.Routes())
}
