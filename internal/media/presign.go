package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultSignedURLTTL = 15 * time.Minute

var (
	ErrBucketRequired = errors.New("media: presign bucket is required")
	ErrRegionRequired = errors.New("media: presign region is required")
)

// PresignConfig points the resolver at a private S3-compatible bucket.
type PresignConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	TTL       time.Duration
}

// PresignResolver returns time-limited GET URLs for objects in Bucket.
type PresignResolver struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewPresignResolver builds the minio client. No request is made until Resolve.
func NewPresignResolver(cfg PresignConfig) (*PresignResolver, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	if strings.TrimSpace(cfg.Region) == "" {
		return nil, ErrRegionRequired
	}
	client, err := minio.New(strings.TrimSpace(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: strings.TrimSpace(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("media: init minio: %w", err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	return &PresignResolver{client: client, bucket: cfg.Bucket, ttl: ttl}, nil
}

// TTL returns the validity window of issued URLs.
func (r *PresignResolver) TTL() time.Duration {
	return r.ttl
}

// Resolve signs path as an object key; a leading "<bucket>/" is dropped.
func (r *PresignResolver) Resolve(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrEmptyPath
	}
	if IsAbsolute(path) {
		return path, nil
	}
	key := strings.TrimPrefix(strings.TrimLeft(path, "/"), r.bucket+"/")
	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("media: presign %s: %w", key, err)
	}
	return u.String(), nil
}
