// Package server wires configuration, stores, services and the HTTP
// kernel together and runs the listener until it is told to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/unistore/app/controllers"
	"github.com/shashiranjanraj/unistore/app/listeners"
	"github.com/shashiranjanraj/unistore/app/routes"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/app/workflow"
	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/internal/kernel"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	"github.com/shashiranjanraj/unistore/pkg/cache"
	"github.com/shashiranjanraj/unistore/pkg/event"
	"github.com/shashiranjanraj/unistore/pkg/logger"
	"github.com/shashiranjanraj/unistore/pkg/middleware"
	"github.com/shashiranjanraj/unistore/pkg/storage"
	"github.com/shashiranjanraj/unistore/pkg/workerpool"
	"github.com/shashiranjanraj/unistore/pkg/ws"
)

const (
	shutdownGrace = 10 * time.Second
	eventWorkers  = 8
)

// App is a fully wired storefront.
type App struct {
	Kernel *kernel.HTTPKernel
	Stores Stores

	pool    *workerpool.Pool
	hub     *ws.Hub
	limiter *middleware.RateLimiter
	closers []func(context.Context) error
}

// New builds the application on top of stores. Redis is used for the
// product cache when reachable; otherwise a process-local cache is used.
func New(ctx context.Context, stores Stores) (*App, error) {
	log := logger.WithCtx(ctx)
	a := &App{Stores: stores}

	var store cache.Store = cache.NewMemory()
	if stores.DB != nil {
		rdb, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", "addr", config.RedisAddr(), "error", err)
		} else {
			store = rdb
			a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		}
	}

	disk, err := storage.FromConfig(ctx)
	if err != nil {
		return nil, err
	}
	var storageRoot string
	if local, ok := disk.(*storage.Local); ok {
		storageRoot = local.Root()
	}

	a.pool = workerpool.New(eventWorkers)
	bus := event.New(a.pool)
	a.hub = ws.NewHub(nil)
	listeners.Register(bus, a.hub)

	policy := workflow.ForName(config.OrderStatusPolicy())
	users := services.NewUserService(stores.Users, stores.Products)
	orders := services.NewOrderService(stores.Orders, stores.Carts, stores.Products, bus, services.OrderOptions{
		PaymentMethods: config.PaymentMethodsEnabled(),
		ClearCart:      config.ClearCartOnCheckout(),
		Policy:         policy,
	})

	if n := config.RateLimitPerMinute(); n > 0 {
		a.limiter = middleware.NewRateLimiter(n, time.Minute)
	}

	a.Kernel = kernel.NewHTTPKernel(kernel.Deps{
		Controllers: routes.Controllers{
			Products:    controllers.NewProductController(services.NewCatalogService(stores.Products, stores.Categories, store)),
			Categories:  controllers.NewCategoryController(services.NewCategoryService(stores.Categories)),
			Cart:        controllers.NewCartController(services.NewCartService(stores.Carts, stores.Products, bus)),
			Orders:      controllers.NewOrderController(orders, a.hub),
			AdminOrders: controllers.NewAdminOrderController(services.NewAdminOrderService(stores.Orders, policy, bus), a.hub),
			Users:       controllers.NewUserController(users),
			Uploads:     controllers.NewUploadController(services.NewUploadService(disk)),
		},
		Tokens:      auth.NewIssuer(config.JWTSecret()),
		Roles:       users,
		CORSOrigins: config.CORSOrigins(),
		Limiter:     a.limiter,
		StorageRoot: storageRoot,
		Ping:        stores.Ping,
	})

	log.Info("application wired",
		"driver", config.DatabaseDriver(),
		"order_status_policy", policy.Name(),
		"payment_methods", config.PaymentMethodsEnabled(),
	)
	return a, nil
}

// Close drains pending event listeners, stops the websocket hub and
// releases every connection.
func (a *App) Close(ctx context.Context) error {
	a.pool.Shutdown()
	a.hub.Close()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c(ctx))
	}
	errs = append(errs, a.Stores.Close(ctx))
	return errors.Join(errs...)
}

// Serve listens on APP_PORT until ctx is cancelled, then shuts down with
// a grace period.
func (a *App) Serve(ctx context.Context) error {
	log := logger.WithCtx(ctx)
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Kernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.limiter != nil {
		go a.limiter.Sweep(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("unistore listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Start opens the stores, builds the app and serves until ctx is done.
func Start(ctx context.Context) error {
	stores, err := OpenStores(ctx)
	if err != nil {
		return err
	}
	a, err := New(ctx, stores)
	if err != nil {
		_ = stores.Close(context.Background())
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Error("close failed", "error", err)
		}
	}()
	return a.Serve(ctx)
}
