package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/badger"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/memory"
)

type repoFactory struct {
	name string
	new  func(t *testing.T) interfaces.Repository
}

func allRepositories() []repoFactory {
	return []repoFactory{
		{name: "memory", new: newMemoryRepository},
		{name: "badger", new: newBadgerRepository},
		{name: "firestore", new: newFirestoreRepository},
	}
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newBadgerRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	repo, err := badger.New("")
	if err != nil {
		t.Fatalf("failed to open badger repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close badger repository: %v", err)
		}
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	// Use standard collection names (no prefix) to utilize existing Firestore indexes
	// Test data isolation is achieved through random store IDs
	repo, err := firestore.New(ctx, projectID, databaseID)
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

func newTestStoreID() model.StoreID {
	return model.NormalizeStoreID(fmt.Sprintf("test-store-%d", time.Now().UnixNano()))
}
