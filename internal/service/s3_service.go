package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/config"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Service stores product images in an S3 compatible bucket.
type S3Service struct {
	client    ObjectPutter
	bucket    string
	region    string
	endpoint  string
	publicURL string
}

// NewS3Service creates the S3 client from config. Static credentials are used
// when configured; otherwise the SDK default chain applies.
func NewS3Service(ctx context.Context, cfg *config.S3Config) (*S3Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3ServiceWithClient(client, cfg), nil
}

// NewS3ServiceWithClient wraps an existing client.
func NewS3ServiceWithClient(client ObjectPutter, cfg *config.S3Config) *S3Service {
	return &S3Service{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}
}

// UploadProductImage uploads an image under productos/<id>/ and returns its URL.
func (s *S3Service) UploadProductImage(ctx context.Context, productID int, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := ProductImageKey(productID, filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload to S3")
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	log.Info().Str("key", key).Msg("Successfully uploaded to S3")
	return s.GetObjectURL(key), nil
}

// ProductImageKey builds a unique object key that keeps the file extension.
func ProductImageKey(productID int, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("productos/%d/%s%s", productID, uuid.New().String(), ext)
}

// GetObjectURL returns the public URL for an object key.
func (s *S3Service) GetObjectURL(key string) string {
	switch {
	case s.publicURL != "":
		return s.publicURL + "/" + key
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}
