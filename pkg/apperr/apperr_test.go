package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
)

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("cart: add: %w", apperr.NotFound("product %s not found", "abc"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "product abc not found", apperr.PublicMessage(err))
}

func TestPlainErrorIsInternal(t *testing.T) {
	err := errors.New("socket closed")

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "Internal Server Error", apperr.PublicMessage(err))
	assert.False(t, apperr.Is(nil, apperr.KindInternal))
}

func TestInternalHidesCause(t *testing.T) {
	err := apperr.Internal(errors.New("dial tcp: refused"), "load cart")

	assert.Equal(t, "Internal Server Error", apperr.PublicMessage(err))
	assert.Contains(t, err.Error(), "dial tcp")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindUnauthenticated:   http.StatusUnauthorized,
		apperr.KindForbidden:         http.StatusForbidden,
		apperr.KindNotFound:          http.StatusNotFound,
		apperr.KindValidation:        http.StatusBadRequest,
		apperr.KindInsufficientStock: http.StatusConflict,
		apperr.KindConflict:          http.StatusConflict,
		apperr.KindInternal:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, apperr.HTTPStatus(kind), kind.String())
	}
}

func TestValidationFields(t *testing.T) {
	err := apperr.ValidationFields(map[string]string{"name": "The name field is required."})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "The name field is required.", apperr.FieldsOf(err)["name"])
}
