package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSConfig configures the Cloud Storage driver.
type GCSConfig struct {
	Bucket string
	// PublicBaseURL overrides the default https://storage.googleapis.com/<bucket> prefix.
	PublicBaseURL string
	// Endpoint points the client at an emulator such as fake-gcs-server.
	Endpoint string
}

// GCS stores images in a Cloud Storage bucket.
type GCS struct {
	URLResolver
	client *storage.Client
	bucket *storage.BucketHandle
}

func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	prefix := cfg.PublicBaseURL
	if prefix == "" {
		prefix = GCSPublicPrefix(cfg.Bucket)
	}
	return &GCS{
		URLResolver: NewURLResolver(prefix),
		client:      client,
		bucket:      client.Bucket(cfg.Bucket),
	}, nil
}

func (g *GCS) Upload(ctx context.Context, key string, data []byte) error {
	w := g.bucket.Object(key).NewWriter(ctx)
	w.ContentType = http.DetectContentType(data)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.bucket.Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (g *GCS) Close() error {
	return g.client.Close()
}
