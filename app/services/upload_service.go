package services

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/unistore/pkg/apperr"
	"github.com/shashiranjanraj/unistore/pkg/storage"
)

// MaxUploadBytes caps a product image upload.
const MaxUploadBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is a stored file.
type Upload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// UploadService stores product media on the configured disk.
type UploadService struct {
	disk storage.Disk
}

func NewUploadService(disk storage.Disk) *UploadService {
	return &UploadService{disk: disk}
}

// StoreImage sniffs the content type of r, rejects anything that is not a
// supported image and writes it under products/.
func (s *UploadService) StoreImage(ctx context.Context, r io.Reader, size int64) (Upload, error) {
	if size > MaxUploadBytes {
		return Upload{}, apperr.ValidationFields(map[string]string{"file": "The file must not be greater than 5 MB."})
	}

	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return Upload{}, apperr.Validation("could not read upload")
	}
	contentType := http.DetectContentType(head)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Upload{}, apperr.ValidationFields(map[string]string{"file": "The file must be a JPEG, PNG, WebP or GIF image."})
	}

	p := path.Join("products", uuid.NewString()+ext)
	if err := s.disk.Put(ctx, p, io.LimitReader(br, MaxUploadBytes), contentType); err != nil {
		return Upload{}, err
	}
	return Upload{Path: p, URL: s.disk.URL(p)}, nil
}
