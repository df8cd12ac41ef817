package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// IngestUseCase turns a source document into a linkable artifact
type IngestUseCase struct {
	provider  interfaces.DocumentProvider
	extractor interfaces.Extractor
	chunker   interfaces.Chunker
	embedder  interfaces.Embedder
	archive   interfaces.Archive
	pipeline  *config.PipelineConfig
}

func NewIngestUseCase(
	provider interfaces.DocumentProvider,
	extractor interfaces.Extractor,
	chunker interfaces.Chunker,
	embedder interfaces.Embedder,
	archive interfaces.Archive,
	pipeline *config.PipelineConfig,
) *IngestUseCase {
	return &IngestUseCase{
		provider:  provider,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		archive:   archive,
		pipeline:  pipeline,
	}
}

// Ingest processes doc for the store. The result is an Active file reference or a fully embedded chunk set;
// a pending artifact is never returned.
func (uc *IngestUseCase) Ingest(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) (*model.ProcessedArtifact, error) {
	if doc.IsEmpty() {
		var name string
		if doc != nil {
			name = doc.Name
		}
		return nil, goerr.Wrap(model.ErrEmptyDocument, "document has no content", goerr.V(model.FileNameKey, name))
	}
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if doc.MIMEType == "" {
		doc.MIMEType = model.ResolveMIMEType(doc.Name, "")
	}

	logger := logging.From(ctx)
	logger.Info("Ingesting document",
		"store_id", storeID,
		"file_name", doc.Name,
		"mime_type", doc.MIMEType,
		"size", len(doc.Content))

	var (
		artifact *model.ProcessedArtifact
		err      error
	)
	switch storeID.Mode() {
	case types.PipelineModeLocal:
		artifact, err = uc.ingestLocal(ctx, doc)
	default:
		artifact, err = uc.ingestRemote(ctx, doc)
	}
	if err != nil {
		return nil, err
	}

	uc.keepOriginal(ctx, storeID, doc)
	return artifact, nil
}

func (uc *IngestUseCase) ingestRemote(ctx context.Context, doc *model.SourceDocument) (*model.ProcessedArtifact, error) {
	if uc.provider == nil {
		return nil, goerr.Wrap(model.ErrMissingCredential, "document provider is not configured")
	}

	file, err := uc.provider.UploadFile(ctx, doc)
	if err != nil {
		return nil, model.Fail(model.ErrUpload, err, "provider rejected upload",
			goerr.V(model.FileNameKey, doc.Name))
	}
	if file.DisplayName == "" {
		file.DisplayName = doc.Name
	}
	if file.MIMEType == "" {
		file.MIMEType = doc.MIMEType
	}

	file, err = awaitProcessing(ctx, uc.pipeline.Processing, file, uc.provider.GetFile)
	if err != nil {
		return nil, err
	}

	artifact := model.NewFileRef(file)
	artifact.SourceFileName = doc.Name
	return artifact, nil
}

func (uc *IngestUseCase) ingestLocal(ctx context.Context, doc *model.SourceDocument) (*model.ProcessedArtifact, error) {
	if uc.extractor == nil || uc.chunker == nil {
		return nil, goerr.Wrap(model.ErrExtraction, "local pipeline is not configured")
	}
	if uc.embedder == nil {
		return nil, goerr.Wrap(model.ErrMissingCredential, "embedder is not configured")
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		if errors.Is(err, model.ErrEmptyDocument) || errors.Is(err, model.ErrExtraction) {
			return nil, goerr.Wrap(err, "failed to extract document", goerr.V(model.FileNameKey, doc.Name))
		}
		return nil, model.Fail(model.ErrExtraction, err, "failed to extract document",
			goerr.V(model.FileNameKey, doc.Name))
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < uc.pipeline.MinExtractedChars {
		return nil, goerr.Wrap(model.ErrExtraction, "extracted text is too short",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("chars", n),
			goerr.V("min_chars", uc.pipeline.MinExtractedChars))
	}

	parts, err := uc.chunker.Split(text)
	if err != nil {
		return nil, model.Fail(model.ErrExtraction, err, "failed to split document",
			goerr.V(model.FileNameKey, doc.Name))
	}
	if len(parts) == 0 {
		return nil, goerr.Wrap(model.ErrExtraction, "document produced no chunks",
			goerr.V(model.FileNameKey, doc.Name))
	}

	vectors, err := uc.embedder.Embed(ctx, parts)
	if err != nil {
		return nil, model.Fail(model.ErrProcessingFailed, err, "failed to embed chunks",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("chunks", len(parts)))
	}
	if len(vectors) != len(parts) {
		return nil, goerr.Wrap(model.ErrProcessingFailed, "embedding count mismatch",
			goerr.V(model.FileNameKey, doc.Name),
			goerr.V("chunks", len(parts)),
			goerr.V("embeddings", len(vectors)))
	}

	chunks := make([]model.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = model.Chunk{
			Index:     i,
			Text:      p,
			Embedding: vectors[i],
		}
	}

	logging.From(ctx).Info("Document chunked",
		"file_name", doc.Name,
		"chunks", len(chunks))

	return model.NewChunkSet(doc.Name, doc.MIMEType, chunks), nil
}

// keepOriginal archives doc. Failures are reported and never abort ingestion.
func (uc *IngestUseCase) keepOriginal(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) {
	if uc.archive == nil {
		return
	}
	if err := uc.archive.Put(ctx, storeID, doc); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to archive document",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, doc.Name)), "archive failed")
	}
}
