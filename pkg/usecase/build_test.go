package usecase_test

import (
	"context"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/memory"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestBuildUseCase_BuildStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates store, ingests and lists both documents", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithProvider(newRemoteProvider()), usecase.WithPipelineConfig(testPipeline()))

		store, err := uc.Store.CreateStore(ctx, "Manual RAG")
		gt.NoError(t, err).Required()

		docs := []*model.SourceDocument{
			model.NewSourceDocument("a.pdf", []byte("%PDF-1.4 warranty manual"), ""),
			model.NewSourceDocument("b.md", []byte("# Setup guide"), ""),
		}

		var events []usecase.BuildProgress
		result, err := uc.Build.BuildStore(ctx, store.ID, docs, func(p usecase.BuildProgress) {
			events = append(events, p)
		})
		gt.NoError(t, err).Required()

		gt.Array(t, result.Records).Length(2)
		gt.Array(t, result.Questions).Length(4)
		gt.Value(t, uc.Catalog.ListFiles(ctx, store.ID)).Equal([]string{"a.pdf", "b.md"})

		gt.Array(t, events).Length(5)
		gt.Value(t, events[0]).Equal(usecase.BuildProgress{Index: 0, Total: 2, FileName: "a.pdf", Stage: usecase.BuildStageIngest})
		gt.Value(t, events[3].Stage).Equal(usecase.BuildStageLink)
		gt.Value(t, events[4].Stage).Equal(usecase.BuildStageDone)
	})

	t.Run("aborts at the first failing document", func(t *testing.T) {
		provider := newRemoteProvider()
		provider.getFileFn = func(ctx context.Context, name string) (*model.RemoteFile, error) {
			if name == "files/slow.pdf" {
				return &model.RemoteFile{Name: name, State: types.FileStatePending}, nil
			}
			return &model.RemoteFile{Name: name, State: types.FileStateActive}, nil
		}
		uc := usecase.New(memory.New(), usecase.WithProvider(provider), usecase.WithPipelineConfig(testPipeline()))

		docs := []*model.SourceDocument{
			model.NewSourceDocument("a.md", []byte("# a"), ""),
			model.NewSourceDocument("slow.pdf", []byte("%PDF"), ""),
			model.NewSourceDocument("c.md", []byte("# c"), ""),
		}

		result, err := uc.Build.BuildStore(ctx, testStoreID, docs, nil)
		gt.Error(t, err).Is(model.ErrProcessingTimeout)
		gt.Array(t, result.Records).Length(1)
		gt.Value(t, uc.Catalog.ListFiles(ctx, testStoreID)).Equal([]string{"a.md"})
		gt.Number(t, provider.count("UploadFile")).Equal(2)
		gt.Number(t, provider.count("ImportFile")).Equal(1)
	})

	t.Run("empty document aborts before upload", func(t *testing.T) {
		provider := newRemoteProvider()
		uc := usecase.New(memory.New(), usecase.WithProvider(provider), usecase.WithPipelineConfig(testPipeline()))

		docs := []*model.SourceDocument{model.NewSourceDocument("zero.txt", []byte{}, "")}
		_, err := uc.Build.BuildStore(ctx, testStoreID, docs, nil)
		gt.Error(t, err).Is(model.ErrEmptyDocument)
		gt.Number(t, provider.totalCalls()).Equal(0)
	})
}

func TestBuildUseCase_AddDocument(t *testing.T) {
	ctx := context.Background()
	storeID := model.NewLocalStoreID()
	uc := usecase.New(memory.New(),
		usecase.WithExtractor(&mockExtractor{}),
		usecase.WithChunker(&mockChunker{}),
		usecase.WithEmbedder(&mockEmbedder{}),
		usecase.WithPipelineConfig(localPipeline()),
	)

	record, err := uc.Build.AddDocument(ctx, storeID, model.NewSourceDocument("notes.txt", []byte("meeting notes about the launch"), ""))
	gt.NoError(t, err).Required()
	gt.Value(t, record.Kind).Equal(types.ArtifactKindChunkSet)
	gt.Value(t, record.ChunkCount).Equal(1)
	gt.Value(t, uc.Catalog.ListFiles(ctx, storeID)).Equal([]string{"notes.txt"})
}
