package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type storeRepository struct {
	mu     sync.RWMutex
	stores map[model.StoreID]*model.KnowledgeStore
	master model.StoreID
}

func newStoreRepository() *storeRepository {
	return &storeRepository{
		stores: make(map[model.StoreID]*model.KnowledgeStore),
	}
}

func (r *storeRepository) Put(ctx context.Context, store *model.KnowledgeStore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *storeRepository) Get(ctx context.Context, id model.StoreID) (*model.KnowledgeStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "store not found", goerr.V(model.StoreIDKey, id))
	}
	copied := *store
	return &copied, nil
}

func (r *storeRepository) List(ctx context.Context) ([]*model.KnowledgeStore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.KnowledgeStore, 0, len(r.stores))
	for _, s := range r.stores {
		copied := *s
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *storeRepository) GetMaster(ctx context.Context) (model.StoreID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.master, nil
}

func (r *storeRepository) SetMaster(ctx context.Context, id model.StoreID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.master = id
	return nil
}
