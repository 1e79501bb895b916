package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/app/repositories"
	"github.com/shashiranjanraj/unistore/app/repositories/memory"
	"github.com/shashiranjanraj/unistore/database/seeders"
)

func TestSeedCatalogIsRepeatable(t *testing.T) {
	ctx := context.Background()
	repos := seeders.Repos{
		Categories: memory.NewCategoryRepository(),
		Products:   memory.NewProductRepository(),
	}

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, repos, &out))
	assert.Contains(t, out.String(), "catalog")

	_, total, err := repos.Products.List(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(8), total)

	require.NoError(t, seeders.RunAll(ctx, repos, &out))
	_, again, err := repos.Products.List(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, total, again)

	categories, err := repos.Categories.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}
