package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"
)

// storeIDExtractor reads the store id from one known shape of the creation response
type storeIDExtractor struct {
	name string
	path []string
}

// storeIDExtractors are tried in order; the first non-empty string wins
var storeIDExtractors = []storeIDExtractor{
	{name: "name", path: []string{"name"}},
	{name: "fileSearchStore.name", path: []string{"fileSearchStore", "name"}},
	{name: "newFileSearchStore.name", path: []string{"newFileSearchStore", "name"}},
}

func (e storeIDExtractor) extract(raw model.RawResponse) (string, bool) {
	var cur any = map[string]any(raw)
	for _, key := range e.path {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[key]; !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func extractStoreID(raw model.RawResponse) (model.StoreID, error) {
	for _, e := range storeIDExtractors {
		if s, ok := e.extract(raw); ok {
			id := model.NormalizeStoreID(s)
			if err := id.Validate(); err != nil {
				return "", goerr.Wrap(model.ErrStoreCreation, "store id in creation response is malformed",
					goerr.V("extractor", e.name), goerr.V(model.StoreIDKey, s))
			}
			return id, nil
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return "", goerr.Wrap(model.ErrStoreCreation, "no store id found in creation response",
		goerr.V("response_keys", keys))
}

// masterStoreKey is the singleflight key of master store creation
const masterStoreKey = "master"

// StoreUseCase creates and tracks knowledge stores
type StoreUseCase struct {
	repo     interfaces.Repository
	provider interfaces.DocumentProvider
	pipeline *config.PipelineConfig
	group    singleflight.Group
}

func NewStoreUseCase(repo interfaces.Repository, provider interfaces.DocumentProvider, pipeline *config.PipelineConfig) *StoreUseCase {
	return &StoreUseCase{
		repo:     repo,
		provider: provider,
		pipeline: pipeline,
	}
}

// CreateStore creates a new store in the configured pipeline mode and records it in the catalog.
// Every call creates a distinct store.
func (uc *StoreUseCase) CreateStore(ctx context.Context, displayName string) (*model.KnowledgeStore, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, goerr.Wrap(model.ErrStoreCreation, "display name is empty")
	}

	var id model.StoreID
	switch uc.pipeline.Mode {
	case types.PipelineModeLocal:
		id = model.NewLocalStoreID()

	default:
		if uc.provider == nil {
			return nil, goerr.Wrap(model.ErrMissingCredential, "document provider is not configured")
		}
		raw, err := uc.provider.CreateStore(ctx, displayName)
		if err != nil {
			return nil, model.Fail(model.ErrStoreCreation, err, "provider rejected store creation",
				goerr.V("display_name", displayName))
		}
		if id, err = extractStoreID(raw); err != nil {
			return nil, err
		}
	}

	store := &model.KnowledgeStore{
		ID:          id,
		DisplayName: displayName,
		Mode:        id.Mode(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Store().Put(ctx, store); err != nil {
		return nil, goerr.Wrap(err, "failed to save store", goerr.V(model.StoreIDKey, id))
	}

	logging.From(ctx).Info("Knowledge store created",
		"store_id", store.ID,
		"display_name", store.DisplayName,
		"mode", store.Mode)

	return store, nil
}

// EnsureStore returns the master store id, creating and persisting the store on first use.
// Concurrent callers share one creation; a recorded id is never regenerated.
func (uc *StoreUseCase) EnsureStore(ctx context.Context, displayName string) (model.StoreID, error) {
	if id, err := uc.repo.Store().GetMaster(ctx); err != nil {
		return "", goerr.Wrap(err, "failed to get master store id")
	} else if id != "" {
		return id, nil
	}

	v, err, _ := uc.group.Do(masterStoreKey, func() (any, error) {
		// Another flight may have finished between the check above and this call
		if id, err := uc.repo.Store().GetMaster(ctx); err != nil {
			return model.StoreID(""), goerr.Wrap(err, "failed to get master store id")
		} else if id != "" {
			return id, nil
		}

		store, err := uc.CreateStore(ctx, displayName)
		if err != nil {
			return model.StoreID(""), err
		}
		if err := uc.repo.Store().SetMaster(ctx, store.ID); err != nil {
			return model.StoreID(""), goerr.Wrap(err, "failed to save master store id", goerr.V(model.StoreIDKey, store.ID))
		}
		return store.ID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(model.StoreID), nil
}

// UseStore records id as the master store. Bare ids are accepted.
func (uc *StoreUseCase) UseStore(ctx context.Context, id string) (model.StoreID, error) {
	storeID := model.NormalizeStoreID(id)
	if err := storeID.Validate(); err != nil {
		return "", err
	}
	if err := uc.repo.Store().SetMaster(ctx, storeID); err != nil {
		return "", goerr.Wrap(err, "failed to save master store id", goerr.V(model.StoreIDKey, storeID))
	}
	return storeID, nil
}

// MasterStore returns the recorded master store id or an empty id
func (uc *StoreUseCase) MasterStore(ctx context.Context) (model.StoreID, error) {
	id, err := uc.repo.Store().GetMaster(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get master store id")
	}
	return id, nil
}

func (uc *StoreUseCase) ListStores(ctx context.Context) ([]*model.KnowledgeStore, error) {
	stores, err := uc.repo.Store().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list stores")
	}
	return stores, nil
}
