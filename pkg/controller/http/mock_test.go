package http_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
)

// mockProvider is a mock implementation of interfaces.DocumentProvider
type mockProvider struct {
	seq atomic.Int64

	generateGroundedFn func(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error)
	deleted            []string
}

func (m *mockProvider) CreateStore(ctx context.Context, displayName string) (model.RawResponse, error) {
	return model.RawResponse{
		"name":        fmt.Sprintf("fileSearchStores/store-%d", m.seq.Add(1)),
		"displayName": displayName,
	}, nil
}

func (m *mockProvider) DeleteStore(ctx context.Context, storeID model.StoreID) error {
	return nil
}

func (m *mockProvider) UploadFile(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error) {
	return &model.RemoteFile{
		Name:        "files/" + doc.Name,
		DisplayName: doc.Name,
		MIMEType:    doc.MIMEType,
		State:       types.FileStatePending,
	}, nil
}

func (m *mockProvider) GetFile(ctx context.Context, name string) (*model.RemoteFile, error) {
	return &model.RemoteFile{Name: name, State: types.FileStateActive}, nil
}

func (m *mockProvider) ImportFile(ctx context.Context, storeID model.StoreID, fileName string) (string, error) {
	return fmt.Sprintf("%s/documents/doc-%d", storeID, m.seq.Add(1)), nil
}

func (m *mockProvider) ListDocuments(ctx context.Context, storeID model.StoreID) ([]*model.RemoteDocument, error) {
	return nil, nil
}

func (m *mockProvider) DeleteDocument(ctx context.Context, documentName string) error {
	m.deleted = append(m.deleted, documentName)
	return nil
}

func (m *mockProvider) GenerateGrounded(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
	if m.generateGroundedFn != nil {
		return m.generateGroundedFn(ctx, storeID, prompt)
	}
	return &model.GroundedResponse{}, nil
}

// testPipeline removes every wait from the default pipeline
func testPipeline() *config.PipelineConfig {
	cfg := config.DefaultPipelineConfig()
	cfg.Processing.Interval = 0
	cfg.LinkDelay = 0
	cfg.LinkRetry.Interval = 0
	return cfg
}
