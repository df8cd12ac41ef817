package usecase

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// BuildStage is the step of a build reported to the progress callback
type BuildStage string

const (
	BuildStageIngest BuildStage = "ingest"
	BuildStageLink   BuildStage = "link"
	BuildStageDone   BuildStage = "done"
)

// BuildProgress describes the document being processed
type BuildProgress struct {
	Index    int
	Total    int
	FileName string
	Stage    BuildStage
}

// ProgressFunc receives build progress. It must not block.
type ProgressFunc func(BuildProgress)

// BuildResult is the outcome of a successful build
type BuildResult struct {
	Records   []*model.LinkedRecord
	Questions []string
}

// BuildUseCase ingests and links documents into a store, one at a time
type BuildUseCase struct {
	ingest *IngestUseCase
	link   *LinkUseCase
	query  *QueryUseCase
}

func NewBuildUseCase(ingest *IngestUseCase, link *LinkUseCase, query *QueryUseCase) *BuildUseCase {
	return &BuildUseCase{
		ingest: ingest,
		link:   link,
		query:  query,
	}
}

// AddDocument ingests and links a single document
func (uc *BuildUseCase) AddDocument(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) (*model.LinkedRecord, error) {
	artifact, err := uc.ingest.Ingest(ctx, storeID, doc)
	if err != nil {
		return nil, err
	}
	return uc.link.Link(ctx, storeID, artifact, doc.Name)
}

// BuildStore processes docs sequentially. The first failing document aborts the build;
// documents linked before it stay linked.
func (uc *BuildUseCase) BuildStore(ctx context.Context, storeID model.StoreID, docs []*model.SourceDocument, progress ProgressFunc) (*BuildResult, error) {
	if progress == nil {
		progress = func(BuildProgress) {}
	}
	if err := storeID.Validate(); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Records: make([]*model.LinkedRecord, 0, len(docs)),
	}

	for i, doc := range docs {
		name := ""
		if doc != nil {
			name = doc.Name
		}

		progress(BuildProgress{Index: i, Total: len(docs), FileName: name, Stage: BuildStageIngest})
		artifact, err := uc.ingest.Ingest(ctx, storeID, doc)
		if err != nil {
			return result, goerr.Wrap(err, "build aborted",
				goerr.V(model.FileNameKey, name),
				goerr.V("index", i))
		}

		progress(BuildProgress{Index: i, Total: len(docs), FileName: name, Stage: BuildStageLink})
		record, err := uc.link.Link(ctx, storeID, artifact, name)
		if err != nil {
			return result, goerr.Wrap(err, "build aborted",
				goerr.V(model.FileNameKey, name),
				goerr.V("index", i))
		}
		result.Records = append(result.Records, record)
	}

	progress(BuildProgress{Index: len(docs), Total: len(docs), Stage: BuildStageDone})
	result.Questions = uc.query.SuggestQuestions(ctx, storeID)

	logging.From(ctx).Info("Store built",
		"store_id", storeID,
		"documents", len(result.Records))

	return result, nil
}
