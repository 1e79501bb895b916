package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories/memory"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/app/workflow"
	"github.com/shashiranjanraj/unistore/pkg/cache"
)

type fixture struct {
	products   *memory.ProductRepository
	categories *memory.CategoryRepository
	users      *memory.UserRepository
	carts      *memory.CartRepository
	orders     *memory.OrderRepository
	events     *recorder

	catalog *services.CatalogService
	cart    *services.CartService
	order   *services.OrderService
	admin   *services.AdminOrderService
	user    *services.UserService

	category models.Category
}

type fired struct {
	name    string
	payload any
}

type recorder struct{ events []fired }

func (r *recorder) FireAsync(_ context.Context, name string, payload any) {
	r.events = append(r.events, fired{name, payload})
}

func (r *recorder) names() []string {
	out := []string{}
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

func newFixture(t *testing.T, policy workflow.Policy) *fixture {
	t.Helper()
	f := &fixture{
		products:   memory.NewProductRepository(),
		categories: memory.NewCategoryRepository(),
		users:      memory.NewUserRepository(),
		carts:      memory.NewCartRepository(),
		orders:     memory.NewOrderRepository(),
		events:     &recorder{},
	}
	f.catalog = services.NewCatalogService(f.products, f.categories, cache.NewMemory())
	f.cart = services.NewCartService(f.carts, f.products, f.events)
	f.order = services.NewOrderService(f.orders, f.carts, f.products, f.events, services.OrderOptions{
		PaymentMethods: []string{"cod", "upi"},
		ClearCart:      true,
		Policy:         policy,
	})
	f.admin = services.NewAdminOrderService(f.orders, policy, f.events)
	f.user = services.NewUserService(f.users, f.products)

	f.category = models.Category{Name: "Merch", Slug: "merch", IsActive: true}
	require.NoError(t, f.categories.Create(context.Background(), &f.category))
	return f
}

func (f *fixture) product(t *testing.T, name string, price float64, qty int, variants ...models.Variant) models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Price:     price,
		Category:  f.category.ID,
		Images:    []string{"https://cdn.example/" + name + ".jpg"},
		Variants:  variants,
		Quantity:  qty,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.products.Create(context.Background(), &p))
	return p
}

func stock(n int) *int { return &n }

var address = models.ShippingAddress{
	FullName: "Asha Rao",
	Phone:    "+91 98765 43210",
	Street:   "Hostel 4, Room 12",
	City:     "Pune",
	State:    "MH",
	ZipCode:  "411007",
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}
