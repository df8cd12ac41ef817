package badger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type storeRepository struct {
	db *badger.DB
}

func (r *storeRepository) Put(ctx context.Context, store *model.KnowledgeStore) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if err := putJSON(txn, makeStoreKey(store.ID), store); err != nil {
			return goerr.Wrap(err, "failed to put store", goerr.V(model.StoreIDKey, store.ID))
		}
		return nil
	})
}

func (r *storeRepository) Get(ctx context.Context, id model.StoreID) (*model.KnowledgeStore, error) {
	var store model.KnowledgeStore
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, makeStoreKey(id), &store)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get store", goerr.V(model.StoreIDKey, id))
	}
	if !found {
		return nil, goerr.Wrap(ErrNotFound, "store not found", goerr.V(model.StoreIDKey, id))
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]*model.KnowledgeStore, error) {
	stores := make([]*model.KnowledgeStore, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(storePrefix), func(_, value []byte) error {
			var s model.KnowledgeStore
			if err := unmarshal(value, &s); err != nil {
				return err
			}
			stores = append(stores, &s)
			return nil
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list stores")
	}

	sort.Slice(stores, func(i, j int) bool {
		return stores[i].CreatedAt.Before(stores[j].CreatedAt)
	})
	return stores, nil
}

func (r *storeRepository) GetMaster(ctx context.Context) (model.StoreID, error) {
	var id model.StoreID
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(masterKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = model.StoreID(val)
			return nil
		})
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to get master store")
	}
	return id, nil
}

func (r *storeRepository) SetMaster(ctx context.Context, id model.StoreID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(masterKey), []byte(id))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to set master store", goerr.V(model.StoreIDKey, id))
	}
	return nil
}
