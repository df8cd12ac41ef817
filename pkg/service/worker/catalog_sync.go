package worker

import (
	"context"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/keylock"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CatalogSyncWorker reconciles LinkedRecords of remote stores with the documents the provider still holds.
// Records whose remote document disappeared are removed. Records linked within the grace period are kept
// because a freshly imported document may not be listed yet.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - The locker is shared with the Linker so a record is never removed while it is being relinked
type CatalogSyncWorker struct {
	repo        interfaces.Repository
	provider    interfaces.DocumentProvider
	interval    time.Duration
	gracePeriod time.Duration
	locks       *keylock.Locker
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// DefaultGracePeriod is the minimum age of a record before the worker may remove it
const DefaultGracePeriod = 5 * time.Minute

type Option func(*CatalogSyncWorker)

// WithLocker shares the per-record locker of the Linker
func WithLocker(locks *keylock.Locker) Option {
	return func(w *CatalogSyncWorker) {
		w.locks = locks
	}
}

func WithGracePeriod(d time.Duration) Option {
	return func(w *CatalogSyncWorker) {
		w.gracePeriod = d
	}
}

// SyncResult summarizes one reconciliation cycle
type SyncResult struct {
	Stores  int
	Removed int
	Failed  int
}

func NewCatalogSyncWorker(repo interfaces.Repository, provider interfaces.DocumentProvider, interval time.Duration, opts ...Option) *CatalogSyncWorker {
	w := &CatalogSyncWorker{
		repo:        repo,
		provider:    provider,
		interval:    interval,
		gracePeriod: DefaultGracePeriod,
		locks:       keylock.New(),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background loop. It does not block.
func (w *CatalogSyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("Catalog sync worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CatalogSyncWorker) Stop() {
	logging.Default().Info("Catalog sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Catalog sync worker stopped")
}

func (w *CatalogSyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if _, err := w.Sync(ctx); err != nil {
		logging.Default().Error("Initial catalog sync failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sync(ctx); err != nil {
				logging.Default().Error("Catalog sync failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Catalog sync worker context cancelled")
			return
		}
	}
}

// Sync performs one reconciliation cycle over all known remote stores.
// A store whose documents cannot be listed is skipped and its records are kept.
func (w *CatalogSyncWorker) Sync(ctx context.Context) (*SyncResult, error) {
	startTime := time.Now()

	stores, err := w.repo.Store().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list stores")
	}

	result := &SyncResult{}
	for _, store := range stores {
		if store.Mode != types.PipelineModeRemote {
			continue
		}
		result.Stores++

		removed, err := w.syncStore(ctx, store)
		if err != nil {
			result.Failed++
			logging.Default().Warn("Skipping store in catalog sync",
				"store_id", store.ID,
				"error", err.Error())
			continue
		}
		result.Removed += removed
	}

	logging.Default().Info("Catalog sync completed",
		"stores", result.Stores,
		"removed", result.Removed,
		"failed", result.Failed,
		"duration", time.Since(startTime).String())

	return result, nil
}

func (w *CatalogSyncWorker) syncStore(ctx context.Context, store *model.KnowledgeStore) (int, error) {
	// Records are read before documents: a record linked after this point is not a candidate
	cutoff := time.Now().Add(-w.gracePeriod)
	records, err := w.repo.Record().List(ctx, store.ID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list records")
	}

	docs, err := w.provider.ListDocuments(ctx, store.ID)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list remote documents")
	}
	remote := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		remote[d.Name] = struct{}{}
	}

	removed := 0
	for _, rec := range records {
		if !isStale(rec, remote, cutoff) {
			continue
		}

		ok, err := w.removeRecord(ctx, rec, remote, cutoff)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

func isStale(rec *model.LinkedRecord, remote map[string]struct{}, cutoff time.Time) bool {
	if rec == nil || rec.Kind != types.ArtifactKindFileRef {
		return false
	}
	if rec.LinkedAt.After(cutoff) {
		return false
	}
	_, ok := remote[rec.ArtifactRef]
	return !ok
}

// removeRecord deletes rec under the Linker's lock after re-reading it. A record relinked meanwhile is kept.
func (w *CatalogSyncWorker) removeRecord(ctx context.Context, rec *model.LinkedRecord, remote map[string]struct{}, cutoff time.Time) (bool, error) {
	unlock := w.locks.Lock(model.LinkLockKey(rec.StoreID, rec.SourceFileName))
	defer unlock()

	current, err := w.repo.Record().Get(ctx, rec.StoreID, rec.SourceFileName)
	if err != nil {
		return false, goerr.Wrap(err, "failed to re-read record",
			goerr.V("file_name", rec.SourceFileName))
	}
	if current == nil || current.ArtifactRef != rec.ArtifactRef || !isStale(current, remote, cutoff) {
		return false, nil
	}

	if err := w.repo.Record().Delete(ctx, rec.StoreID, rec.SourceFileName); err != nil {
		return false, goerr.Wrap(err, "failed to delete stale record",
			goerr.V("file_name", rec.SourceFileName))
	}
	logging.Default().Info("Removed record of vanished document",
		"store_id", rec.StoreID,
		"file_name", rec.SourceFileName,
		"document", rec.ArtifactRef)
	return true, nil
}
