package interfaces

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

// Repository defines the interface for catalog persistence
type Repository interface {
	Store() StoreRepository
	Record() RecordRepository
	Chunk() ChunkRepository
	Binding() BindingRepository

	Close() error
}

// StoreRepository keeps references to known knowledge stores and the master store id
type StoreRepository interface {
	Put(ctx context.Context, store *model.KnowledgeStore) error

	// Get returns ErrNotFound of the backend when the store is unknown
	Get(ctx context.Context, id model.StoreID) (*model.KnowledgeStore, error)

	List(ctx context.Context) ([]*model.KnowledgeStore, error)

	// GetMaster returns an empty id when no master store has been recorded
	GetMaster(ctx context.Context) (model.StoreID, error)
	SetMaster(ctx context.Context, id model.StoreID) error
}

// RecordRepository persists LinkedRecords. Records are unique per (storeID, sourceFileName).
type RecordRepository interface {
	// Put inserts or replaces the record with the same (StoreID, SourceFileName)
	Put(ctx context.Context, record *model.LinkedRecord) error

	// Get returns nil without error when no record exists
	Get(ctx context.Context, storeID model.StoreID, sourceFileName string) (*model.LinkedRecord, error)

	// List returns records of the store ordered by SourceFileName
	List(ctx context.Context, storeID model.StoreID) ([]*model.LinkedRecord, error)

	Delete(ctx context.Context, storeID model.StoreID, sourceFileName string) error
}

// ChunkRepository persists embedded chunks of chunkSet records
type ChunkRepository interface {
	// Replace deletes all chunks of recordID and stores chunks in one operation
	Replace(ctx context.Context, recordID model.RecordID, chunks []*model.StoredChunk) error

	DeleteByRecord(ctx context.Context, recordID model.RecordID) error

	// FindByEmbedding returns up to limit chunks of the store nearest to embedding
	FindByEmbedding(ctx context.Context, storeID model.StoreID, embedding []float32, limit int) ([]*model.StoredChunk, error)
}

// BindingRepository maps chat channels to stores
type BindingRepository interface {
	Put(ctx context.Context, binding *model.ChannelBinding) error

	// Get returns nil without error when the channel is not bound
	Get(ctx context.Context, channelID string) (*model.ChannelBinding, error)
}
