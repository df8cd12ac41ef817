package memory

import (
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Memory is a volatile repository for development and tests
type Memory struct {
	store   *storeRepository
	record  *recordRepository
	chunk   *chunkRepository
	binding *bindingRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		store:   newStoreRepository(),
		record:  newRecordRepository(),
		chunk:   newChunkRepository(),
		binding: newBindingRepository(),
	}
}

func (m *Memory) Store() interfaces.StoreRepository {
	return m.store
}

func (m *Memory) Record() interfaces.RecordRepository {
	return m.record
}

func (m *Memory) Chunk() interfaces.ChunkRepository {
	return m.chunk
}

func (m *Memory) Binding() interfaces.BindingRepository {
	return m.binding
}

func (m *Memory) Close() error {
	return nil
}
