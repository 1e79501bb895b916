package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryIndexIsNamed(t *testing.T) {
	for _, set := range []indexSet{CategoriesIndexes, ProductsIndexes, CartsIndexes, OrdersIndexes} {
		names := map[string]bool{}
		for _, idx := range set.indexes {
			if assert.NotNil(t, idx.Options, set.collection) && assert.NotNil(t, idx.Options.Name, set.collection) {
				assert.False(t, names[*idx.Options.Name], "duplicate index %s.%s", set.collection, *idx.Options.Name)
				names[*idx.Options.Name] = true
			}
		}
	}
}

func TestCheckoutTokenIndexIsPartialAndUnique(t *testing.T) {
	for _, idx := range OrdersIndexes.indexes {
		if *idx.Options.Name != "user_checkout_token_unique" {
			continue
		}
		assert.True(t, *idx.Options.Unique)
		assert.NotNil(t, idx.Options.PartialFilterExpression)
		return
	}
	t.Fatal("checkout token index missing")
}
