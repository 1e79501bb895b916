package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/internal/server"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	"github.com/shashiranjanraj/unistore/pkg/testkit"
)

func TestMemoryAppServesTheAPI(t *testing.T) {
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())
	config.Set("JWT_SECRET", "server-test")

	ctx := context.Background()
	stores := server.MemoryStores()
	a, err := server.New(ctx, stores)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close(context.Background())) })

	token, err := auth.NewIssuer("server-test").Issue("stu-1", "stu@uni.edu", "Stu", "student", time.Hour)
	require.NoError(t, err)

	api := testkit.New(t, a.Kernel.Handler())
	api.Get("/health").AssertStatus(http.StatusOK)
	api.Get("/api/products").AssertStatus(http.StatusOK)
	api.Get("/api/cart").AssertStatus(http.StatusUnauthorized)
	api.As(token).Get("/api/cart").AssertStatus(http.StatusOK)
	api.As(token).Get("/api/admin/stats").AssertStatus(http.StatusForbidden)
}

func TestMemoryStoresNeedNoDatabase(t *testing.T) {
	stores := server.MemoryStores()
	_, err := stores.RequireDB("migrate")
	assert.ErrorContains(t, err, "DB_DRIVER=mongo")
	assert.NoError(t, stores.Ping(context.Background()))
	assert.NoError(t, stores.Close(context.Background()))
}
