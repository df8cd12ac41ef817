package usecase

import (
	"context"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/keylock"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// LinkUseCase associates processed artifacts with stores and records the result in the catalog
type LinkUseCase struct {
	repo     interfaces.Repository
	provider interfaces.DocumentProvider
	locks    *keylock.Locker
	pipeline *config.PipelineConfig
}

func NewLinkUseCase(repo interfaces.Repository, provider interfaces.DocumentProvider, locks *keylock.Locker, pipeline *config.PipelineConfig) *LinkUseCase {
	return &LinkUseCase{
		repo:     repo,
		provider: provider,
		locks:    locks,
		pipeline: pipeline,
	}
}

// Link attaches artifact to the store under sourceFileName. Linking the same (store, file) again replaces the previous record.
func (uc *LinkUseCase) Link(ctx context.Context, storeID model.StoreID, artifact *model.ProcessedArtifact, sourceFileName string) (*model.LinkedRecord, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if err := artifact.Linkable(); err != nil {
		return nil, err
	}
	if sourceFileName == "" {
		sourceFileName = artifact.SourceFileName
	}
	if sourceFileName == "" {
		return nil, goerr.Wrap(model.ErrNotLinkable, "source file name is empty")
	}

	unlock := uc.locks.Lock(model.LinkLockKey(storeID, sourceFileName))
	defer unlock()

	previous, err := uc.repo.Record().Get(ctx, storeID, sourceFileName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get linked record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}

	record := &model.LinkedRecord{
		ID:             model.NewRecordID(storeID, sourceFileName),
		StoreID:        storeID,
		SourceFileName: sourceFileName,
		Kind:           artifact.Kind,
		MIMEType:       artifact.MIMEType,
		LinkedAt:       time.Now().UTC(),
	}

	switch artifact.Kind {
	case types.ArtifactKindFileRef:
		docName, err := uc.importFile(ctx, storeID, artifact.ExternalID, sourceFileName)
		if err != nil {
			return nil, err
		}
		record.ArtifactRef = docName

	case types.ArtifactKindChunkSet:
		if err := uc.storeChunks(ctx, record, artifact.Chunks); err != nil {
			return nil, err
		}
		record.ArtifactRef = string(record.ID)
		record.ChunkCount = len(artifact.Chunks)
	}

	if err := uc.repo.Record().Put(ctx, record); err != nil {
		return nil, model.Fail(model.ErrLink, err, "failed to save linked record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, sourceFileName))
	}

	if previous != nil && previous.Kind == types.ArtifactKindFileRef && previous.ArtifactRef != record.ArtifactRef {
		uc.dropDocument(ctx, previous.ArtifactRef)
	}

	logging.From(ctx).Info("Document linked",
		"store_id", storeID,
		"file_name", sourceFileName,
		"kind", record.Kind,
		"ref", record.ArtifactRef,
		"relinked", previous != nil)

	return record, nil
}

// importFile waits LinkDelay, then imports the file. "Not found" answers are retried while the file settles.
func (uc *LinkUseCase) importFile(ctx context.Context, storeID model.StoreID, fileName, sourceFileName string) (string, error) {
	if uc.provider == nil {
		return "", goerr.Wrap(model.ErrMissingCredential, "document provider is not configured")
	}

	if err := wait(ctx, uc.pipeline.LinkDelay); err != nil {
		return "", goerr.Wrap(err, "link interrupted")
	}

	attempts := max(uc.pipeline.LinkRetry.MaxAttempts, 1)
	for attempt := 1; ; attempt++ {
		docName, err := uc.provider.ImportFile(ctx, storeID, fileName)
		if err == nil {
			return docName, nil
		}

		if model.ClassifyCause(err) != types.CauseNotFound || attempt >= attempts {
			return "", model.Fail(model.ErrLink, err, "provider rejected link",
				goerr.V(model.StoreIDKey, storeID),
				goerr.V(model.FileKey, fileName),
				goerr.V(model.FileNameKey, sourceFileName),
				goerr.V("attempts", attempt))
		}

		logging.From(ctx).Warn("File not found by provider yet, retrying link",
			"store_id", storeID,
			"file", fileName,
			"attempt", attempt)

		if err := wait(ctx, uc.pipeline.LinkRetry.Interval); err != nil {
			return "", goerr.Wrap(err, "link interrupted")
		}
	}
}

func (uc *LinkUseCase) storeChunks(ctx context.Context, record *model.LinkedRecord, chunks []model.Chunk) error {
	stored := make([]*model.StoredChunk, len(chunks))
	for i, c := range chunks {
		stored[i] = &model.StoredChunk{
			RecordID:       record.ID,
			StoreID:        record.StoreID,
			SourceFileName: record.SourceFileName,
			Index:          c.Index,
			Text:           c.Text,
			Embedding:      c.Embedding,
		}
	}

	if err := uc.repo.Chunk().Replace(ctx, record.ID, stored); err != nil {
		return model.Fail(model.ErrLink, err, "failed to store chunks",
			goerr.V(model.StoreIDKey, record.StoreID),
			goerr.V(model.FileNameKey, record.SourceFileName))
	}
	return nil
}

// dropDocument removes a superseded remote document. Failures leave a duplicate behind and are only reported.
func (uc *LinkUseCase) dropDocument(ctx context.Context, documentName string) {
	if uc.provider == nil || documentName == "" {
		return
	}
	if err := uc.provider.DeleteDocument(ctx, documentName); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to delete superseded document",
			goerr.V("document", documentName)), "relink cleanup failed")
	}
}
