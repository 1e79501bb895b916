// Package kernel assembles the HTTP handler: global middleware, the
// operational endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"github.com/shashiranjanraj/unistore/app/routes"
	"github.com/shashiranjanraj/unistore/pkg/metrics"
	"github.com/shashiranjanraj/unistore/pkg/middleware"
	"github.com/shashiranjanraj/unistore/pkg/rbac"
	"github.com/shashiranjanraj/unistore/pkg/reqid"
	"github.com/shashiranjanraj/unistore/pkg/response"
	"github.com/shashiranjanraj/unistore/pkg/router"
)

// Deps is everything the kernel needs from the server.
type Deps struct {
	Controllers routes.Controllers
	Tokens      middleware.TokenVerifier
	Roles       rbac.RoleResolver
	CORSOrigins []string
	// Limiter may be nil to disable rate limiting.
	Limiter *middleware.RateLimiter
	// StorageRoot is served under /storage when set.
	StorageRoot string
	// Ping backs /health.
	Ping func(ctx context.Context) error
}

type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(d Deps) *HTTPKernel {
	r := router.New()

	// Global middleware, outermost first:
	//  1. Prometheus metrics
	//  2. Recovery
	//  3. Request ID, so the logger can attach it
	//  4. Logger
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(d.CORSOrigins)))
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", "health", health(d.Ping))
	if d.StorageRoot != "" {
		r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(d.StorageRoot))))
	}

	routes.RegisterAPI(r, d.Controllers, d.Tokens, d.Roles)
	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
