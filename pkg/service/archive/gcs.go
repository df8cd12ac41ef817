package archive

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// GCS stores original documents in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Archive = &GCS{}

func NewGCS(ctx context.Context, bucket, prefix string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

func (g *GCS) Put(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) error {
	key := ObjectKey(g.prefix, storeID, doc.Name)

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = doc.MIMEType

	if _, err := w.Write(doc.Content); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
