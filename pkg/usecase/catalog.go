package usecase

import (
	"context"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CatalogUseCase is the read side of LinkedRecords plus file removal
type CatalogUseCase struct {
	repo     interfaces.Repository
	provider interfaces.DocumentProvider
}

func NewCatalogUseCase(repo interfaces.Repository, provider interfaces.DocumentProvider) *CatalogUseCase {
	return &CatalogUseCase{
		repo:     repo,
		provider: provider,
	}
}

// ListFiles returns the source file names linked to the store, ordered by name.
// Any retrieval failure yields an empty list.
func (uc *CatalogUseCase) ListFiles(ctx context.Context, storeID model.StoreID) []string {
	records, err := uc.ListRecords(ctx, storeID)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to list files")
		return []string{}
	}

	files := make([]string, 0, len(records))
	for _, r := range records {
		files = append(files, r.SourceFileName)
	}
	return files
}

func (uc *CatalogUseCase) ListRecords(ctx context.Context, storeID model.StoreID) ([]*model.LinkedRecord, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	records, err := uc.repo.Record().List(ctx, storeID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list records", goerr.V(model.StoreIDKey, storeID))
	}
	return records, nil
}

// DeleteFile unlinks the file from the store. The remote document or the stored chunks are removed first;
// a missing record is not an error.
func (uc *CatalogUseCase) DeleteFile(ctx context.Context, storeID model.StoreID, fileName string) error {
	if err := storeID.Validate(); err != nil {
		return err
	}

	record, err := uc.repo.Record().Get(ctx, storeID, fileName)
	if err != nil {
		return goerr.Wrap(err, "failed to get record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, fileName))
	}
	if record == nil {
		return nil
	}

	switch record.Kind {
	case types.ArtifactKindFileRef:
		if uc.provider == nil {
			return goerr.Wrap(model.ErrMissingCredential, "document provider is not configured")
		}
		if err := uc.provider.DeleteDocument(ctx, record.ArtifactRef); err != nil &&
			model.ClassifyCause(err) != types.CauseNotFound {
			return goerr.Wrap(err, "failed to delete remote document",
				goerr.V("document", record.ArtifactRef))
		}

	case types.ArtifactKindChunkSet:
		if err := uc.repo.Chunk().DeleteByRecord(ctx, record.ID); err != nil {
			return goerr.Wrap(err, "failed to delete chunks", goerr.V("record_id", record.ID))
		}
	}

	if err := uc.repo.Record().Delete(ctx, storeID, fileName); err != nil {
		return goerr.Wrap(err, "failed to delete record",
			goerr.V(model.StoreIDKey, storeID),
			goerr.V(model.FileNameKey, fileName))
	}

	logging.From(ctx).Info("File removed from store",
		"store_id", storeID,
		"file_name", fileName)
	return nil
}
