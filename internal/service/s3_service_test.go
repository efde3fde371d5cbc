package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/ministore_api/internal/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		b, _ := io.ReadAll(params.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploadProductImage(t *testing.T) {
	putter := &fakePutter{}
	svc := NewS3ServiceWithClient(putter, &config.S3Config{Bucket: "imagenes", Region: "us-east-1"})

	url, err := svc.UploadProductImage(context.Background(), 7, "Pastel.JPG", "image/jpeg", strings.NewReader("data"), 4)
	require.NoError(t, err)

	key := aws.ToString(putter.input.Key)
	assert.True(t, strings.HasPrefix(key, "productos/7/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.Equal(t, "imagenes", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, "data", putter.body)
	assert.Equal(t, "https://imagenes.s3.us-east-1.amazonaws.com/"+key, url)
}

func TestUploadProductImageError(t *testing.T) {
	putter := &fakePutter{err: errors.New("access denied")}
	svc := NewS3ServiceWithClient(putter, &config.S3Config{Bucket: "imagenes", Region: "us-east-1"})

	_, err := svc.UploadProductImage(context.Background(), 1, "a.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "access denied")
}

func TestGetObjectURL(t *testing.T) {
	withPublic := NewS3ServiceWithClient(nil, &config.S3Config{Bucket: "b", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/productos/1/x.png", withPublic.GetObjectURL("productos/1/x.png"))

	withEndpoint := NewS3ServiceWithClient(nil, &config.S3Config{Bucket: "b", Endpoint: "http://minio:9000"})
	assert.Equal(t, "http://minio:9000/b/k", withEndpoint.GetObjectURL("k"))
}
