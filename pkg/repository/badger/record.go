package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type recordRepository struct {
	db *badger.DB
}

func (r *recordRepository) Put(ctx context.Context, record *model.LinkedRecord) error {
	rec := *record
	rec.ID = model.NewRecordID(record.StoreID, record.SourceFileName)

	err := r.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, makeRecordKey(rec.StoreID, rec.SourceFileName), &rec)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put record",
			goerr.V(model.StoreIDKey, rec.StoreID),
			goerr.V(model.FileNameKey, rec.SourceFileName))
	}
	return nil
}

func (r *recordRepository) Get(ctx context.Context, storeID model.StoreID, sourceFileName string) (*model.LinkedRecord, error) {
	var rec model.LinkedRecord
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, makeRecordKey(storeID, sourceFileName), &rec)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

func (r *recordRepository) List(ctx context.Context, storeID model.StoreID) ([]*model.LinkedRecord, error) {
	records := make([]*model.LinkedRecord, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, makeRecordStorePrefix(storeID), func(_, value []byte) error {
			var rec model.LinkedRecord
			if err := unmarshal(value, &rec); err != nil {
				return err
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list records", goerr.V(model.StoreIDKey, storeID))
	}
	return records, nil
}

func (r *recordRepository) Delete(ctx context.Context, storeID model.StoreID, sourceFileName string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeRecordKey(storeID, sourceFileName))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}
	return nil
}
