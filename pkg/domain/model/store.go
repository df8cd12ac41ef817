package model

import (
	"strings"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// StoreResourcePrefix is the collection prefix of knowledge store resource names
const StoreResourcePrefix = "fileSearchStores/"

// StoreID is the full resource name of a knowledge store, e.g. "fileSearchStores/manual-rag-1a2b".
// It is the sole key used for linking and querying.
type StoreID string

// NormalizeStoreID accepts either a bare id or a full resource name and returns the full resource name
func NormalizeStoreID(s string) StoreID {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, StoreResourcePrefix) {
		return StoreID(s)
	}
	return StoreID(StoreResourcePrefix + strings.TrimPrefix(s, "/"))
}

// localStorePrefix marks stores whose documents are chunked and embedded in-process
const localStorePrefix = "local-"

// NewLocalStoreID generates an id for a store whose documents are chunked and embedded in-process
func NewLocalStoreID() StoreID {
	return StoreID(StoreResourcePrefix + localStorePrefix + uuid.New().String())
}

// Mode returns the pipeline that owns the documents of the store
func (id StoreID) Mode() types.PipelineMode {
	if strings.HasPrefix(id.Short(), localStorePrefix) {
		return types.PipelineModeLocal
	}
	return types.PipelineModeRemote
}

func (id StoreID) String() string {
	return string(id)
}

// Short returns the id without the resource prefix
func (id StoreID) Short() string {
	return strings.TrimPrefix(string(id), StoreResourcePrefix)
}

// Validate checks that the id is a non-empty full resource name
func (id StoreID) Validate() error {
	short := id.Short()
	if !strings.HasPrefix(string(id), StoreResourcePrefix) || short == "" || strings.Contains(short, "/") {
		return goerr.Wrap(ErrInvalidStoreID, "malformed store id", goerr.V("store_id", id))
	}
	return nil
}

// KnowledgeStore is a reference to a store owned by the provider (remote mode) or by the local catalog (local mode)
type KnowledgeStore struct {
	ID          StoreID
	DisplayName string
	Mode        types.PipelineMode
	CreatedAt   time.Time
}
