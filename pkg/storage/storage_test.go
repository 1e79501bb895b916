package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutDeleteURL(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocal(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/a.png", strings.NewReader("img"), "image/png"))
	data, err := os.ReadFile(filepath.Join(d.Root(), "products", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
	assert.Equal(t, "http://localhost:8080/storage/products/a.png", d.URL("products/a.png"))

	require.NoError(t, d.Delete(ctx, "products/a.png"))
	require.NoError(t, d.Delete(ctx, "products/a.png"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	d, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	assert.Error(t, d.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), ""))
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	body   string
	delKey string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PutSetsContentType(t *testing.T) {
	fake := &fakeS3{}
	d := &S3{client: fake, bucket: "media", baseURL: "https://cdn.campus.edu"}

	require.NoError(t, d.Put(context.Background(), "products/x.webp", strings.NewReader("webp"), "image/webp"))
	assert.Equal(t, "media", aws.ToString(fake.put.Bucket))
	assert.Equal(t, "image/webp", aws.ToString(fake.put.ContentType))
	assert.Equal(t, "webp", fake.body)
	assert.Equal(t, "https://cdn.campus.edu/products/x.webp", d.URL("/products/x.webp"))

	require.NoError(t, d.Delete(context.Background(), "products/x.webp"))
	assert.Equal(t, "products/x.webp", fake.delKey)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{})
	assert.Error(t, err)
}
