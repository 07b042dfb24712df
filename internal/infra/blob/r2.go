package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// R2Reader reads objects from Cloudflare R2 or any S3-compatible store.
type R2Reader struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewR2Reader constructs the reader.
func NewR2Reader(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*R2Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	if cleanEndpoint == "" {
		return nil, fmt.Errorf("init r2 client: endpoint cannot be empty")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Reader{client: client, bucket: bucket, logger: logger.With("component", "blob.r2")}, nil
}

// Read implements Reader.
func (r *R2Reader) Read(ctx context.Context, key string) ([]byte, error) {
	key = trimKey(key)
	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, r.mapError(key, err)
	}
	defer obj.Close()
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		return nil, r.mapError(key, err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, r.mapError(key, err)
	}
	r.logger.Debug("object fetched", "key", key, "bytes", len(data))
	return data, nil
}

// Location implements Reader.
func (r *R2Reader) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", r.bucket, trimKey(key))
}

func (r *R2Reader) mapError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%s: %w", r.Location(key), ErrNotFound)
	}
	return fmt.Errorf("read %s: %w", r.Location(key), err)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ Reader = (*R2Reader)(nil)
