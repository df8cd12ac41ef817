package archive

import (
	"bytes"
	"context"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO stores original documents in an S3 compatible bucket
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string

	ensureOnce sync.Once
	ensureErr  error
}

var _ interfaces.Archive = &MinIO{}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string `masq:"secret"`
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

func NewMinIO(cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create minio client", goerr.V("endpoint", cfg.Endpoint))
	}

	return &MinIO{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	m.ensureOnce.Do(func() {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			m.ensureErr = goerr.Wrap(err, "failed to check bucket existence", goerr.V("bucket", m.bucket))
			return
		}
		if !exists {
			if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
				m.ensureErr = goerr.Wrap(err, "failed to create bucket", goerr.V("bucket", m.bucket))
			}
		}
	})
	return m.ensureErr
}

func (m *MinIO) Put(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) error {
	if err := m.ensureBucket(ctx); err != nil {
		return err
	}

	key := ObjectKey(m.prefix, storeID, doc.Name)
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(doc.Content), int64(len(doc.Content)),
		minio.PutObjectOptions{ContentType: doc.MIMEType})
	if err != nil {
		return goerr.Wrap(err, "failed to put object", goerr.V("bucket", m.bucket), goerr.V("key", key))
	}
	return nil
}
