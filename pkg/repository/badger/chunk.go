package badger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type chunkRepository struct {
	db *badger.DB
}

func deleteChunks(txn *badger.Txn, recordID model.RecordID) error {
	var keys [][]byte
	err := scanPrefix(txn, makeChunkRecordPrefix(recordID), func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return goerr.Wrap(err, "failed to delete chunk", goerr.V("key", string(key)))
		}
	}
	return nil
}

func (r *chunkRepository) Replace(ctx context.Context, recordID model.RecordID, chunks []*model.StoredChunk) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := deleteChunks(txn, recordID); err != nil {
			return err
		}
		for _, c := range chunks {
			stored := *c
			stored.RecordID = recordID
			if err := putJSON(txn, makeChunkKey(recordID, c.Index), &stored); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to replace chunks",
			goerr.V("record_id", recordID),
			goerr.V("count", len(chunks)))
	}
	return nil
}

func (r *chunkRepository) DeleteByRecord(ctx context.Context, recordID model.RecordID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return deleteChunks(txn, recordID)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete chunks", goerr.V("record_id", recordID))
	}
	return nil
}

// FindByEmbedding scans all chunks of the store and ranks them by cosine similarity
func (r *chunkRepository) FindByEmbedding(ctx context.Context, storeID model.StoreID, embedding []float32, limit int) ([]*model.StoredChunk, error) {
	type scored struct {
		chunk *model.StoredChunk
		score float64
	}

	var candidates []scored
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(chunkPrefix), func(_, value []byte) error {
			var c model.StoredChunk
			if err := unmarshal(value, &c); err != nil {
				return err
			}
			if c.StoreID != storeID || len(c.Embedding) == 0 {
				return nil
			}
			candidates = append(candidates, scored{
				chunk: &c,
				score: model.CosineSimilarity(embedding, c.Embedding),
			})
			return nil
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search chunks", goerr.V(model.StoreIDKey, storeID))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.StoredChunk, limit)
	for i := range result {
		result[i] = candidates[i].chunk
	}
	return result, nil
}
