// Package repositories persists the storefront documents in MongoDB. Each
// repository wraps one collection of the *database.Handle it is given.
// The interfaces here are also implemented by package memory.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

// Collection names.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionUsers      = "users"
	CollectionCarts      = "carts"
	CollectionOrders     = "orders"
)

// Product list orderings.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Category        primitive.ObjectID
	Search          string
	Featured        *bool
	MinPrice        *float64
	MaxPrice        *float64
	IncludeInactive bool
	Sort            string
	Page            int
	Limit           int
}

// OrderFilter narrows an order listing. All ignores Page and Limit.
type OrderFilter struct {
	User          string
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	Page          int
	Limit         int
}

// OrderStats summarises every order.
type OrderStats struct {
	Orders    int64            `json:"orders"`
	ByStatus  map[string]int64 `json:"byStatus"`
	ByPayment map[string]int64 `json:"byPayment"`
	Revenue   float64          `json:"revenue"`
}

type ProductRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	// Upsert creates the user on first sight and refreshes the identity
	// fields (email, name) afterwards. Role and profile are kept.
	Upsert(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u *models.User) error
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	AddToWishlist(ctx context.Context, id string, product primitive.ObjectID) error
	RemoveFromWishlist(ctx context.Context, id string, product primitive.ObjectID) error
}

type CartRepository interface {
	// FindByUser returns a NotFound error when the user has no cart yet.
	FindByUser(ctx context.Context, user string) (models.Cart, error)
	// Save replaces the whole cart document of c.User, creating it if needed.
	Save(ctx context.Context, c *models.Cart) error
	Delete(ctx context.Context, user string) error
}

type OrderRepository interface {
	// Create returns a Conflict error on a duplicate order number or
	// checkout token.
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByCheckoutToken(ctx context.Context, user, token string) (models.Order, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error)
	All(ctx context.Context, f OrderFilter) ([]models.Order, error)
	// UpdateStatus applies change only while the order still holds the
	// status pair from; otherwise it returns a Conflict error.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.StatusChange, change models.StatusChange, adminNotes *string) (models.Order, error)
	Stats(ctx context.Context) (OrderStats, error)
}

// ParseID converts a hex id from a URL or payload. Malformed ids are
// reported as not found.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found", what)
	}
	return id, nil
}

// Paging clamps page and limit and returns the skip count.
func Paging(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}

// NewOrderStats returns stats with every status bucket present.
func NewOrderStats() OrderStats {
	s := OrderStats{ByStatus: map[string]int64{}, ByPayment: map[string]int64{}}
	for _, st := range models.OrderStatuses {
		s.ByStatus[string(st)] = 0
	}
	for _, st := range models.PaymentStatuses {
		s.ByPayment[string(st)] = 0
	}
	return s
}

var (
	_ ProductRepository  = (*MongoProductRepository)(nil)
	_ CategoryRepository = (*MongoCategoryRepository)(nil)
	_ UserRepository     = (*MongoUserRepository)(nil)
	_ CartRepository     = (*MongoCartRepository)(nil)
	_ OrderRepository    = (*MongoOrderRepository)(nil)
)
