package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func header(key string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", key)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupsComposePrefixAndMiddleware(t *testing.T) {
	r := router.New()
	api := r.Group("/api", header("api"))
	admin := api.Group("admin", header("admin"))
	admin.Put("/orders/{id}/status", "admin.orders.status", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/admin/orders/42/status", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"api", "admin"}, rec.Header().Values("X-Trace"))
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("/api").Delete("/cart/{itemId}", "cart.items.destroy", ok)

	u, err := r.URL("cart.items.destroy", map[string]string{"itemId": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "/api/cart/abc", u)

	_, err = r.URL("cart.items.destroy", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestRoutesAreSorted(t *testing.T) {
	r := router.New()
	g := r.Group("/api")
	g.Post("/orders", "orders.store", ok)
	g.Get("/orders", "orders.index", ok)
	g.Patch("/cart", "", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodPatch, Path: "/api/cart"}, routes[0])
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, "orders.store", routes[2].Name)
}
