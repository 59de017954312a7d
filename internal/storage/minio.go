package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"archiv/internal/config"
	"archiv/internal/logging"
)

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// Documents live directly under an optional key prefix; "sub-directories" below it are ignored.
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
	prefix string
	log    *logging.Logger
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig, log *logging.Logger) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	if log == nil {
		log = logging.Discard()
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket, prefix: normalizePrefix(cfg.Prefix), log: log}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func normalizePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func (m *minioStorage) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: m.prefix}) {
		if obj.Err != nil {
			if isNoSuchBucket(obj.Err) {
				m.ensureBucket(ctx)
				return nil, nil
			}
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, m.prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		keys = append(keys, name)
	}
	return keys, nil
}

func (m *minioStorage) ensureBucket(ctx context.Context) {
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		m.log.Warn("document_bucket_create_failed", map[string]any{"bucket": m.bucket, "error": err})
		return
	}
	m.log.Info("document_bucket_created", map[string]any{"bucket": m.bucket})
}

func (m *minioStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	st, err := m.client.StatObject(ctx, m.bucket, m.prefix+key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, mapMinIOError(key, err)
	}
	return ObjectInfo{Key: key, Size: st.Size, LastModified: st.LastModified}, nil
}

// Get downloads an object content as a ReadCloser along with basic info.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.prefix+key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, mapMinIOError(key, err)
	}
	// Stat forces the request so a missing key surfaces here, not mid-stream.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, mapMinIOError(key, err)
	}
	return obj, ObjectInfo{Key: key, Size: st.Size, LastModified: st.LastModified}, nil
}

func (m *minioStorage) Ping(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucket); err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	return nil
}

func isNoSuchBucket(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchBucket"
}

func mapMinIOError(key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	return fmt.Errorf("get object %s: %w", key, err)
}
