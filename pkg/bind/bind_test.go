package bind_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/bind"
)

type qtyInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func TestJSONValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":3}`))
	var in qtyInput

	require.NoError(t, bind.JSON(req, &in))
	assert.Equal(t, 3, in.Quantity)
}

func TestJSONMalformedIsValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":`))
	var in qtyInput

	err := bind.JSON(req, &in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestJSONRuleFailureCarriesFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":0}`))
	var in qtyInput

	err := bind.JSON(req, &in)
	require.Error(t, err)
	assert.Contains(t, apperr.FieldsOf(err), "quantity")
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "shirt.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFile(t *testing.T) {
	f, hdr, err := bind.File(multipartRequest(t, "file", []byte("png-bytes")), "file", 1024)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "shirt.png", hdr.Filename)
}

func TestFileTooLarge(t *testing.T) {
	_, _, err := bind.File(multipartRequest(t, "file", bytes.Repeat([]byte("x"), 64)), "file", 16)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestFileMissingField(t *testing.T) {
	_, _, err := bind.File(multipartRequest(t, "other", []byte("x")), "file", 1024)
	assert.Contains(t, apperr.FieldsOf(err), "file")
}
