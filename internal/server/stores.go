package server

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/repositories/memory"
	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/pkg/database"
	"github.com/shashiranjanraj/unistore/pkg/logger"
)

// Stores is one repository per collection.
type Stores struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Users      repositories.UserRepository
	Carts      repositories.CartRepository
	Orders     repositories.OrderRepository

	// DB is nil for the memory driver.
	DB *database.Handle
}

// OpenStores connects the driver named by DB_DRIVER. The caller releases
// the connection with Close.
func OpenStores(ctx context.Context) (Stores, error) {
	if config.DatabaseDriver() == "memory" {
		logger.WithCtx(ctx).Warn("using in-memory store; data is lost on exit")
		return MemoryStores(), nil
	}

	db, err := database.Connect(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return Stores{}, err
	}
	logger.WithCtx(ctx).Info("mongo connected", "database", config.MongoDatabase())
	return MongoStores(db), nil
}

func MongoStores(db *database.Handle) Stores {
	return Stores{
		Products:   repositories.NewProductRepository(db),
		Categories: repositories.NewCategoryRepository(db),
		Users:      repositories.NewUserRepository(db),
		Carts:      repositories.NewCartRepository(db),
		Orders:     repositories.NewOrderRepository(db),
		DB:         db,
	}
}

func MemoryStores() Stores {
	return Stores{
		Products:   memory.NewProductRepository(),
		Categories: memory.NewCategoryRepository(),
		Users:      memory.NewUserRepository(),
		Carts:      memory.NewCartRepository(),
		Orders:     memory.NewOrderRepository(),
	}
}

// RequireDB returns the Mongo handle or an error naming cmd when the
// memory driver is configured.
func (s Stores) RequireDB(cmd string) (*database.Handle, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("%s needs DB_DRIVER=mongo", cmd)
	}
	return s.DB, nil
}

// Ping reports whether the store is reachable.
func (s Stores) Ping(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Ping(ctx)
}

func (s Stores) Close(ctx context.Context) error {
	return s.DB.Close(ctx)
}
