package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

type recordRepository struct {
	mu      sync.RWMutex
	records map[model.RecordID]*model.LinkedRecord
}

func newRecordRepository() *recordRepository {
	return &recordRepository{
		records: make(map[model.RecordID]*model.LinkedRecord),
	}
}

func (r *recordRepository) Put(ctx context.Context, record *model.LinkedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *record
	copied.ID = model.NewRecordID(record.StoreID, record.SourceFileName)
	r.records[copied.ID] = &copied
	return nil
}

func (r *recordRepository) Get(ctx context.Context, storeID model.StoreID, sourceFileName string) (*model.LinkedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[model.NewRecordID(storeID, sourceFileName)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *recordRepository) List(ctx context.Context, storeID model.StoreID) ([]*model.LinkedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.LinkedRecord, 0)
	for _, record := range r.records {
		if record.StoreID != storeID {
			continue
		}
		copied := *record
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].SourceFileName < result[j].SourceFileName
	})
	return result, nil
}

func (r *recordRepository) Delete(ctx context.Context, storeID model.StoreID, sourceFileName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, model.NewRecordID(storeID, sourceFileName))
	return nil
}
