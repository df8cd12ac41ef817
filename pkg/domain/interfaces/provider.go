package interfaces

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
)

// DocumentProvider is the external document-intelligence service owning knowledge stores.
// Failures are reported as *model.ProviderError in the error chain.
type DocumentProvider interface {
	// CreateStore returns the decoded creation response; the caller extracts the store id
	CreateStore(ctx context.Context, displayName string) (model.RawResponse, error)
	DeleteStore(ctx context.Context, storeID model.StoreID) error

	UploadFile(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error)
	GetFile(ctx context.Context, name string) (*model.RemoteFile, error)

	// ImportFile associates an uploaded file with the store and returns the resulting document name
	ImportFile(ctx context.Context, storeID model.StoreID, fileName string) (string, error)
	ListDocuments(ctx context.Context, storeID model.StoreID) ([]*model.RemoteDocument, error)
	DeleteDocument(ctx context.Context, documentName string) error

	// GenerateGrounded answers prompt using retrieval scoped to the store
	GenerateGrounded(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error)
}
