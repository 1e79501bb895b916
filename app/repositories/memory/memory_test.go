package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/repositories/memory"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

func TestProductListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository()
	now := time.Now()

	for i, p := range []models.Product{
		{Name: "Campus Hoodie", Price: 899, IsActive: true, Tags: []string{"apparel"}},
		{Name: "Lab Notebook", Price: 120, IsActive: true, Tags: []string{"stationery"}},
		{Name: "Old Mug", Price: 250, IsActive: false},
	} {
		p.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, &p))
	}

	items, total, err := repo.List(ctx, repositories.ProductFilter{Sort: repositories.SortPriceAsc})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Lab Notebook", items[0].Name)

	items, _, err = repo.List(ctx, repositories.ProductFilter{Search: "APPAREL"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Campus Hoodie", items[0].Name)

	items, total, err = repo.List(ctx, repositories.ProductFilter{IncludeInactive: true, Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Lab Notebook", items[0].Name)
}

func TestCategorySlugIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCategoryRepository()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Books", Slug: "books"}))
	err := repo.Create(ctx, &models.Category{Name: "Books 2", Slug: "books"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCartIsolation(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCartRepository()

	cart := models.Cart{User: "u1", Items: []models.CartItem{{ID: "a", Quantity: 1, Price: 10}}}
	require.NoError(t, repo.Save(ctx, &cart))

	loaded, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	loaded.Items[0].Quantity = 99

	again, err := repo.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.FindByUser(ctx, "u1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOrderCheckoutTokenIsUniquePerUser(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()

	require.NoError(t, repo.Create(ctx, &models.Order{OrderNumber: "UNI-1", User: "u1", CheckoutToken: "tok"}))
	err := repo.Create(ctx, &models.Order{OrderNumber: "UNI-2", User: "u1", CheckoutToken: "tok"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	require.NoError(t, repo.Create(ctx, &models.Order{OrderNumber: "UNI-3", User: "u2", CheckoutToken: "tok"}))

	found, err := repo.FindByCheckoutToken(ctx, "u1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "UNI-1", found.OrderNumber)
}

func TestOrderUpdateStatusGuardsCurrentPair(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()

	o := models.Order{OrderNumber: "UNI-1", OrderStatus: models.OrderPending, PaymentStatus: models.PaymentPending}
	require.NoError(t, repo.Create(ctx, &o))

	from := models.StatusChange{OrderStatus: models.OrderPending, PaymentStatus: models.PaymentPending}
	change := models.StatusChange{OrderStatus: models.OrderShipped, PaymentStatus: models.PaymentPaid, At: time.Now()}
	notes := "left at gate"

	updated, err := repo.UpdateStatus(ctx, o.ID, from, change, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.OrderStatus)
	assert.Equal(t, "left at gate", updated.AdminNotes)
	assert.Len(t, updated.History, 1)

	_, err = repo.UpdateStatus(ctx, o.ID, from, change, nil)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Orders)
	assert.EqualValues(t, 1, stats.ByStatus["shipped"])
	assert.EqualValues(t, 0, stats.ByStatus["pending"])
}

func TestUserUpsertKeepsRoleAndWishlistIsASet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	u, err := repo.Upsert(ctx, models.User{ID: "sub-1", Email: "a@uni.edu", Name: "A", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)

	u, err = repo.Upsert(ctx, models.User{ID: "sub-1", Email: "b@uni.edu", Name: "B", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "b@uni.edu", u.Email)

	p := primitive.NewObjectID()
	require.NoError(t, repo.AddToWishlist(ctx, "sub-1", p))
	require.NoError(t, repo.AddToWishlist(ctx, "sub-1", p))
	u, _ = repo.FindByID(ctx, "sub-1")
	assert.Len(t, u.Wishlist, 1)

	require.NoError(t, repo.RemoveFromWishlist(ctx, "sub-1", p))
	u, _ = repo.FindByID(ctx, "sub-1")
	assert.Empty(t, u.Wishlist)
}
