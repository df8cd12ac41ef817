package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

type chunkRepository struct {
	mu     sync.RWMutex
	chunks map[model.RecordID][]*model.StoredChunk
}

func newChunkRepository() *chunkRepository {
	return &chunkRepository{
		chunks: make(map[model.RecordID][]*model.StoredChunk),
	}
}

func copyChunk(c *model.StoredChunk) *model.StoredChunk {
	copied := *c
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return &copied
}

func (r *chunkRepository) Replace(ctx context.Context, recordID model.RecordID, chunks []*model.StoredChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]*model.StoredChunk, len(chunks))
	for i, c := range chunks {
		stored[i] = copyChunk(c)
		stored[i].RecordID = recordID
	}
	r.chunks[recordID] = stored
	return nil
}

func (r *chunkRepository) DeleteByRecord(ctx context.Context, recordID model.RecordID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.chunks, recordID)
	return nil
}

func (r *chunkRepository) FindByEmbedding(ctx context.Context, storeID model.StoreID, embedding []float32, limit int) ([]*model.StoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		chunk *model.StoredChunk
		score float64
	}

	var candidates []scored
	for _, chunks := range r.chunks {
		for _, c := range chunks {
			if c.StoreID != storeID || len(c.Embedding) == 0 {
				continue
			}
			candidates = append(candidates, scored{
				chunk: copyChunk(c),
				score: model.CosineSimilarity(embedding, c.Embedding),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit < 0 {
		limit = 0
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.StoredChunk, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].chunk
	}
	return result, nil
}
