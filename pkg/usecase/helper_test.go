package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
)

// testPipeline is the default pipeline with every wait removed
func testPipeline() *config.PipelineConfig {
	cfg := config.DefaultPipelineConfig()
	cfg.Processing.Interval = 0
	cfg.LinkDelay = 0
	cfg.LinkRetry.Interval = 0
	return cfg
}

func localPipeline() *config.PipelineConfig {
	cfg := testPipeline()
	cfg.Mode = types.PipelineModeLocal
	return cfg
}

const testStoreID = model.StoreID("fileSearchStores/manual-rag-1a2b")

// newRemoteProvider simulates a provider where uploads are pending once, then active, and imports succeed
func newRemoteProvider() *mockProvider {
	var seq atomic.Int64
	return &mockProvider{
		createStoreFn: func(ctx context.Context, displayName string) (model.RawResponse, error) {
			return model.RawResponse{
				"name":        fmt.Sprintf("fileSearchStores/store-%d", seq.Add(1)),
				"displayName": displayName,
			}, nil
		},
		uploadFileFn: func(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error) {
			return &model.RemoteFile{
				Name:        "files/" + doc.Name,
				DisplayName: doc.Name,
				MIMEType:    doc.MIMEType,
				State:       types.FileStatePending,
			}, nil
		},
		getFileFn: func(ctx context.Context, name string) (*model.RemoteFile, error) {
			return &model.RemoteFile{
				Name:  name,
				State: types.FileStateActive,
			}, nil
		},
		importFileFn: func(ctx context.Context, storeID model.StoreID, fileName string) (string, error) {
			return fmt.Sprintf("%s/documents/doc-%d", storeID, seq.Add(1)), nil
		},
	}
}
