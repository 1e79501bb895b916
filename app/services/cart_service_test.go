package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/app/pricing"
	"github.com/shashiranjanraj/unistore/app/services"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

func TestCartViewOfMissingCartIsEmpty(t *testing.T) {
	f := newFixture(t, nil)

	view, err := f.cart.View(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, pricing.Totals{Subtotal: 0, Tax: 0, Shipping: 50, Total: 50}, view.Totals)
}

func TestCartAddPricesLikeCheckout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "hoodie", 400, 10)

	view, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	assert.Equal(t, 800.0, view.Total)
	assert.Equal(t, pricing.Totals{Subtotal: 800, Tax: 144, Shipping: 0, Total: 944}, view.Totals)
	assert.Equal(t, []string{services.EventCartMutated}, f.events.names())
}

func TestCartAddSameSelectionIncrements(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "tee", 300, 10,
		models.Variant{Type: "size", Value: "M"},
		models.Variant{Type: "size", Value: "XL", Price: 50},
		models.Variant{Type: "color", Value: "navy", Price: 20},
	)

	in := services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 1, SelectedVariants: []services.VariantChoice{
		{Type: "size", Value: "XL"}, {Type: "color", Value: "navy"},
	}}
	_, err := f.cart.Add(ctx, "u1", in)
	require.NoError(t, err)

	in.SelectedVariants = []services.VariantChoice{{Type: "color", Value: "navy"}, {Type: "size", Value: "XL"}}
	view, err := f.cart.Add(ctx, "u1", in)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 740.0, view.Total)

	in.SelectedVariants = []services.VariantChoice{{Type: "size", Value: "M"}}
	view, err = f.cart.Add(ctx, "u1", in)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 1040.0, view.Total)
}

func TestCartAddRejectsUnknownVariant(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, "tee", 300, 10, models.Variant{Type: "size", Value: "M"})

	_, err := f.cart.Add(context.Background(), "u1", services.AddItemInput{
		ProductID:        p.ID.Hex(),
		Quantity:         1,
		SelectedVariants: []services.VariantChoice{{Type: "size", Value: "XXXL"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, apperr.FieldsOf(err), "selectedVariants[0]")
}

func TestCartAddChecksCombinedStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "mug", 150, 3)

	_, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 2})
	require.NoError(t, err)

	_, err = f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 2})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	view, err := f.cart.View(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCartAddChecksVariantStock(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, "cap", 200, 50, models.Variant{Type: "color", Value: "red", Stock: stock(1)})

	_, err := f.cart.Add(context.Background(), "u1", services.AddItemInput{
		ProductID:        p.ID.Hex(),
		Quantity:         2,
		SelectedVariants: []services.VariantChoice{{Type: "color", Value: "red"}},
	})
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
}

func TestCartAddMissingOrInactiveProduct(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: "64b7f0c2a1b2c3d4e5f60718", Quantity: 1})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	p := f.product(t, "retired", 100, 5)
	require.NoError(t, f.products.SetActive(ctx, p.ID, false))
	_, err = f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 1})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartUpdateQuantityClamps(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "pen", 20, 5)

	view, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 2})
	require.NoError(t, err)
	id := view.Items[0].ID

	view, err = f.cart.UpdateQuantity(ctx, "u1", id, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)

	view, err = f.cart.UpdateQuantity(ctx, "u1", id, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)

	view, err = f.cart.UpdateQuantity(ctx, "u1", id, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 60.0, view.Total)

	_, err = f.cart.UpdateQuantity(ctx, "u1", "missing", 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	keep := f.product(t, "notebook", 120, 10)
	drop := f.product(t, "lanyard", 80, 10)

	_, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: keep.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	before, err := f.cart.View(ctx, "u1")
	require.NoError(t, err)

	view, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: drop.ID.Hex(), Quantity: 2})
	require.NoError(t, err)
	dropID := view.Items[1].ID

	once, err := f.cart.Remove(ctx, "u1", dropID)
	require.NoError(t, err)
	twice, err := f.cart.Remove(ctx, "u1", dropID)
	require.NoError(t, err)

	assert.Equal(t, before.Total, once.Total)
	assert.Equal(t, once.Total, twice.Total)
	assert.Equal(t, once.Items, twice.Items)
	assert.Equal(t, before.Totals, twice.Totals)
}

func TestCartClear(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.product(t, "pen", 20, 5)

	_, err := f.cart.Add(ctx, "u1", services.AddItemInput{ProductID: p.ID.Hex(), Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.cart.Clear(ctx, "u1"))

	view, err := f.cart.View(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
