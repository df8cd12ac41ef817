package interfaces

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

// Extractor converts a document into plain text
type Extractor interface {
	Extract(ctx context.Context, doc *model.SourceDocument) (string, error)
}

// Chunker splits text into overlapping retrieval units
type Chunker interface {
	Split(text string) ([]string, error)
}

// Embedder returns one vector of model.EmbeddingDimension per input text, in input order
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Archive keeps a copy of original documents. It is best effort.
type Archive interface {
	Put(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) error
}
