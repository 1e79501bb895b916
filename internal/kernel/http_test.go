package kernel_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/internal/kernel"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	"github.com/shashiranjanraj/unistore/pkg/testkit"
)

func TestOperationalEndpoints(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "a.txt"), []byte("hello"), 0o644))

	healthy := true
	k := kernel.NewHTTPKernel(kernel.Deps{
		Tokens:      auth.NewIssuer("secret"),
		CORSOrigins: []string{"*"},
		StorageRoot: root,
		Ping: func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("down")
		},
	})
	api := testkit.New(t, k.Handler())

	api.Get("/health").AssertStatus(http.StatusOK)
	healthy = false
	api.Get("/health").AssertStatus(http.StatusServiceUnavailable)

	res := api.Get("/storage/products/a.txt").AssertStatus(http.StatusOK)
	assert.Equal(t, "hello", string(res.Body))

	api.Get("/metrics").AssertStatus(http.StatusOK)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestRoutesAreNamed(t *testing.T) {
	k := kernel.NewHTTPKernel(kernel.Deps{Tokens: auth.NewIssuer("secret")})

	path, ok := k.Router().Path("admin.orders.status.update")
	require.True(t, ok)
	assert.Equal(t, "/api/admin/orders/{id}/status", path)

	for _, r := range k.Router().Routes() {
		assert.NotEmpty(t, r.Name, "%s %s", r.Method, r.Path)
	}
}
