package ctx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/auth"
	appctx "github.com/shashiranjanraj/unistore/pkg/ctx"
	"github.com/shashiranjanraj/unistore/pkg/response"
)

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Success(map[string]any{"id": 1})
		assert.Equal(t, http.StatusOK, c.WrittenStatus())
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"data":{"id":1}}`, rec.Body.String())
}

func TestParamAndQuery(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/products/{id}", appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "abc", c.Param("id"))
		assert.Equal(t, 3, c.QueryInt("page", 1))
		assert.Equal(t, 20, c.QueryInt("limit", 20))
		price, ok := c.QueryFloat("minPrice")
		assert.True(t, ok)
		assert.Equal(t, 99.5, price)
		c.Success(nil)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/abc?page=3&limit=x&minPrice=99.5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindJSONWritesValidationFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))

	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Quantity int `json:"quantity" validate:"required"`
		}
		assert.False(t, c.BindJSON(&in))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity"`)
}

func TestFailUsesKind(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(apperr.NotFound("product not found"))
		assert.Equal(t, http.StatusNotFound, c.WrittenStatus())
	})(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestUserIDFromClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &auth.Claims{Role: "student"}
	claims.Subject = "u-7"
	req = req.WithContext(auth.WithClaims(context.Background(), claims))

	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "u-7", c.UserID())
		c.Paginated([]string{}, response.NewPage(1, 10, 0))
	})(rec, req)

	assert.Contains(t, rec.Body.String(), `"pagination"`)
}

func TestUserIDEmptyWithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) {
		assert.Equal(t, "", c.UserID())
		assert.Nil(t, c.Claims())
	})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
}
