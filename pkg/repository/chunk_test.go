package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

func newTestChunks(storeID model.StoreID, fileName string, embeddings ...[]float32) []*model.StoredChunk {
	chunks := make([]*model.StoredChunk, len(embeddings))
	for i, e := range embeddings {
		chunks[i] = &model.StoredChunk{
			StoreID:        storeID,
			SourceFileName: fileName,
			Index:          i,
			Text:           fileName + " chunk",
			Embedding:      e,
		}
	}
	return chunks
}

func runChunkRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("FindByEmbedding returns nearest chunks first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		storeID := newTestStoreID()
		recordID := model.NewRecordID(storeID, "a.txt")

		chunks := newTestChunks(storeID, "a.txt",
			[]float32{0, 1, 0},
			[]float32{1, 0, 0},
			[]float32{0.7, 0.7, 0},
		)
		if err := repo.Chunk().Replace(ctx, recordID, chunks); err != nil {
			t.Fatalf("failed to replace chunks: %v", err)
		}

		found, err := repo.Chunk().FindByEmbedding(ctx, storeID, []float32{1, 0, 0}, 2)
		if err != nil {
			t.Fatalf("failed to find chunks: %v", err)
		}
		if len(found) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(found))
		}
		if found[0].Index != 1 {
			t.Errorf("expected nearest chunk index=1, got %d", found[0].Index)
		}
		if found[1].Index != 2 {
			t.Errorf("expected second chunk index=2, got %d", found[1].Index)
		}
		if found[0].RecordID != recordID {
			t.Errorf("expected RecordID=%s, got %s", recordID, found[0].RecordID)
		}
	})

	t.Run("FindByEmbedding is scoped to store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		storeID := newTestStoreID()
		otherID := newTestStoreID()

		if err := repo.Chunk().Replace(ctx, model.NewRecordID(otherID, "b.txt"),
			newTestChunks(otherID, "b.txt", []float32{1, 0, 0})); err != nil {
			t.Fatalf("failed to replace chunks: %v", err)
		}

		found, err := repo.Chunk().FindByEmbedding(ctx, storeID, []float32{1, 0, 0}, 5)
		if err != nil {
			t.Fatalf("failed to find chunks: %v", err)
		}
		if len(found) != 0 {
			t.Errorf("expected no chunks, got %d", len(found))
		}
	})

	t.Run("Replace drops previous chunks of the record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		storeID := newTestStoreID()
		recordID := model.NewRecordID(storeID, "a.txt")

		if err := repo.Chunk().Replace(ctx, recordID, newTestChunks(storeID, "a.txt",
			[]float32{1, 0, 0}, []float32{0, 1, 0}, []float32{0, 0, 1})); err != nil {
			t.Fatalf("failed to replace chunks: %v", err)
		}
		if err := repo.Chunk().Replace(ctx, recordID, newTestChunks(storeID, "a.txt",
			[]float32{1, 0, 0})); err != nil {
			t.Fatalf("failed to replace chunks: %v", err)
		}

		found, err := repo.Chunk().FindByEmbedding(ctx, storeID, []float32{1, 0, 0}, 10)
		if err != nil {
			t.Fatalf("failed to find chunks: %v", err)
		}
		if len(found) != 1 {
			t.Errorf("expected 1 chunk after replace, got %d", len(found))
		}
	})

	t.Run("DeleteByRecord removes chunks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		storeID := newTestStoreID()
		recordID := model.NewRecordID(storeID, "a.txt")

		if err := repo.Chunk().Replace(ctx, recordID, newTestChunks(storeID, "a.txt",
			[]float32{1, 0, 0})); err != nil {
			t.Fatalf("failed to replace chunks: %v", err)
		}
		if err := repo.Chunk().DeleteByRecord(ctx, recordID); err != nil {
			t.Fatalf("failed to delete chunks: %v", err)
		}

		found, err := repo.Chunk().FindByEmbedding(ctx, storeID, []float32{1, 0, 0}, 10)
		if err != nil {
			t.Fatalf("failed to find chunks: %v", err)
		}
		if len(found) != 0 {
			t.Errorf("expected no chunks, got %d", len(found))
		}
	})
}

func TestChunkRepository(t *testing.T) {
	for _, f := range allRepositories() {
		t.Run(f.name, func(t *testing.T) {
			runChunkRepositoryTest(t, f.new)
		})
	}
}

func TestFirestoreChunkRepository_RejectedWrite(t *testing.T) {
	repo := newFirestoreRepository(t)
	ctx := context.Background()
	storeID := newTestStoreID()
	recordID := model.NewRecordID(storeID, "huge.txt")

	// Firestore documents are limited to 1 MiB
	chunks := newTestChunks(storeID, "huge.txt", []float32{1, 0, 0})
	chunks[0].Text = strings.Repeat("x", 2<<20)

	if err := repo.Chunk().Replace(ctx, recordID, chunks); err == nil {
		t.Fatal("expected oversized chunk write to be reported")
	}
}
