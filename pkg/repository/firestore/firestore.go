package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = goerr.New("not found")

type Firestore struct {
	client  *firestore.Client
	store   *storeRepository
	record  *recordRepository
	chunk   *chunkRepository
	binding *bindingRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends prefix to every collection name. Used to isolate test data.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.store.collectionPrefix = prefix
		f.record.collectionPrefix = prefix
		f.chunk.collectionPrefix = prefix
		f.binding.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		store:   newStoreRepository(client),
		record:  newRecordRepository(client),
		chunk:   newChunkRepository(client),
		binding: newBindingRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Store() interfaces.StoreRepository {
	return f.store
}

func (f *Firestore) Record() interfaces.RecordRepository {
	return f.record
}

func (f *Firestore) Chunk() interfaces.ChunkRepository {
	return f.chunk
}

func (f *Firestore) Binding() interfaces.BindingRepository {
	return f.binding
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
