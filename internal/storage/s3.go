package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	cfg "github.com/iackson05/streakd/internal/config"
	"github.com/iackson05/streakd/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrNotConfigured is returned by Put when no bucket is configured.
var ErrNotConfigured = errors.New("blob storage is not configured")

// Storage stores uploaded images and hands out their public URLs.
type Storage interface {
	// Put stores data under folder and returns the object's public URL
	Put(ctx context.Context, data []byte, contentType, folder string) (string, error)

	// Delete removes the object behind a URL previously returned by Put.
	// Empty or foreign URLs are ignored.
	Delete(ctx context.Context, publicURL string) error
}

// S3Storage implements Storage for S3-compatible storage
// Works with AWS S3, MinIO, Cloudflare R2, etc.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string // Base URL objects are served from
	breaker   *gobreaker.CircuitBreaker[any]
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
	PublicURL string // Optional: CDN or r2.dev domain objects are served from
}

// New creates the blob store from app config. Without a bucket the
// returned store rejects uploads and ignores deletes.
func New(c *cfg.Config) (Storage, error) {
	if c.S3Bucket == "" {
		slog.Warn("S3_BUCKET not set, image uploads are disabled")
		return Disabled{}, nil
	}

	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
		PublicURL: c.S3PublicURL,
	})
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	ctx := context.Background()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBaseURL(cfg),
		breaker:   newBreaker("s3:" + cfg.Bucket),
	}, nil
}

func publicBaseURL(cfg S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimSuffix(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// newBreaker opens after five consecutive failures and probes again after 30s.
func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("blob store circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// Put uploads data to folder/<uuid>.<ext>.
func (s *S3Storage) Put(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	key := ObjectKey(folder, contentType)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.breaker.Execute(func() (any, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
	})
	metrics.RecordBlobOperation("put", err)
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

// Delete removes the object a public URL points at.
func (s *S3Storage) Delete(ctx context.Context, publicURL string) error {
	key, ok := KeyFromURL(s.publicURL, publicURL)
	if !ok {
		if publicURL != "" {
			slog.Warn("blob delete skipped: url is not served by this bucket", "url", publicURL)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.breaker.Execute(func() (any, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	})
	metrics.RecordBlobOperation("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	slog.Debug("blob deleted", "key", key)
	return nil
}

// ObjectKey builds folder/<uuid>.<ext> with the extension taken from the
// content type's subtype.
func ObjectKey(folder, contentType string) string {
	ext := "jpg"
	if i := strings.LastIndex(contentType, "/"); i >= 0 && i < len(contentType)-1 {
		ext = contentType[i+1:]
	}
	if folder == "" {
		folder = "uploads"
	}
	return fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)
}

// KeyFromURL strips the public base from a URL. It reports false for empty
// URLs and URLs outside the base.
func KeyFromURL(base, publicURL string) (string, bool) {
	if base == "" || publicURL == "" {
		return "", false
	}

	prefix := base + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}

	key := strings.TrimPrefix(publicURL, prefix)
	return key, key != ""
}

// Disabled is the store used when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Delete(ctx context.Context, publicURL string) error {
	if publicURL != "" {
		slog.Warn("blob delete skipped: storage is not configured", "url", publicURL)
	}
	return nil
}
