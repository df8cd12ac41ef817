package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionStores   = "stores"
	collectionSettings = "settings"
	settingsCatalogDoc = "catalog"
)

type storeDoc struct {
	ID          string    `firestore:"ID"`
	DisplayName string    `firestore:"DisplayName"`
	Mode        string    `firestore:"Mode"`
	CreatedAt   time.Time `firestore:"CreatedAt"`
}

type catalogSettingsDoc struct {
	MasterStoreID string    `firestore:"MasterStoreID"`
	UpdatedAt     time.Time `firestore:"UpdatedAt"`
}

type storeRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStoreRepository(client *firestore.Client) *storeRepository {
	return &storeRepository{client: client}
}

func (r *storeRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + collectionStores)
}

func (r *storeRepository) settings() *firestore.DocumentRef {
	return r.client.Collection(r.collectionPrefix + collectionSettings).Doc(settingsCatalogDoc)
}

// Store ids contain "/" so the short id is used as document id
func (r *storeRepository) doc(id model.StoreID) *firestore.DocumentRef {
	return r.collection().Doc(id.Short())
}

func (r *storeRepository) Put(ctx context.Context, store *model.KnowledgeStore) error {
	doc := &storeDoc{
		ID:          store.ID.String(),
		DisplayName: store.DisplayName,
		Mode:        store.Mode.String(),
		CreatedAt:   store.CreatedAt,
	}
	if _, err := r.doc(store.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put store", goerr.V(model.StoreIDKey, store.ID))
	}
	return nil
}

func docToStore(snap *firestore.DocumentSnapshot) (*model.KnowledgeStore, error) {
	var d storeDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	mode, err := types.ParsePipelineMode(d.Mode)
	if err != nil {
		return nil, err
	}
	return &model.KnowledgeStore{
		ID:          model.StoreID(d.ID),
		DisplayName: d.DisplayName,
		Mode:        mode,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func (r *storeRepository) Get(ctx context.Context, id model.StoreID) (*model.KnowledgeStore, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "store not found", goerr.V(model.StoreIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get store", goerr.V(model.StoreIDKey, id))
	}

	store, err := docToStore(snap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal store", goerr.V(model.StoreIDKey, id))
	}
	return store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]*model.KnowledgeStore, error) {
	iter := r.collection().OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	stores := make([]*model.KnowledgeStore, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate stores")
		}

		store, err := docToStore(snap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal store", goerr.V("doc_id", snap.Ref.ID))
		}
		stores = append(stores, store)
	}

	return stores, nil
}

func (r *storeRepository) GetMaster(ctx context.Context) (model.StoreID, error) {
	snap, err := r.settings().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", goerr.Wrap(err, "failed to get catalog settings")
	}

	var d catalogSettingsDoc
	if err := snap.DataTo(&d); err != nil {
		return "", goerr.Wrap(err, "failed to unmarshal catalog settings")
	}
	return model.StoreID(d.MasterStoreID), nil
}

func (r *storeRepository) SetMaster(ctx context.Context, id model.StoreID) error {
	doc := &catalogSettingsDoc{
		MasterStoreID: id.String(),
		UpdatedAt:     time.Now().UTC(),
	}
	if _, err := r.settings().Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set master store", goerr.V(model.StoreIDKey, id))
	}
	return nil
}
