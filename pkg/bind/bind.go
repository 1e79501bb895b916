// Package bind decodes request bodies into structs and runs validation.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/validate"
)

func maxBodyBytes() int64 {
	n := int64(config.Int("MAX_BODY_BYTES", 1<<20))
	if n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body into dest and validates it. Malformed bodies and
// failing rules are both reported as apperr validation errors.
func JSON(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is empty")
		default:
			return apperr.Validation("invalid JSON: %v", err)
		}
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.ValidationFields(errs)
	}
	return nil
}

// File reads the multipart file in field, refusing anything larger than max bytes.
// The caller closes the returned file.
func File(r *http.Request, field string, max int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, max+(1<<20))
	if err := r.ParseMultipartForm(max); err != nil {
		return nil, nil, apperr.Validation("invalid multipart body: %v", err)
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, nil, apperr.ValidationFields(map[string]string{field: fmt.Sprintf("The %s field is required.", field)})
	}
	if hdr.Size > max {
		f.Close()
		return nil, nil, apperr.ValidationFields(map[string]string{field: fmt.Sprintf("The %s may not be larger than %d bytes.", field, max)})
	}
	return f, hdr, nil
}
