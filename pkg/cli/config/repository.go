package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/badger"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/firestore"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/repository/memory"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendBadger    = "badger"
)

// DefaultBadgerDir returns ~/.config/filesearch/catalog
func DefaultBadgerDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "filesearch", "catalog")
}

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	badgerDir        string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (badger, firestore or memory)",
			Category:    "Repository",
			Value:       BackendBadger,
			Sources:     cli.EnvVars("FILESEARCH_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix prepended to every Firestore collection name",
			Category:    "Repository",
			Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "badger-dir",
			Usage:       "Directory of the embedded catalog (badger backend)",
			Category:    "Repository",
			Value:       DefaultBadgerDir(),
			Sources:     cli.EnvVars("FILESEARCH_BADGER_DIR"),
			Destination: &r.badgerDir,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingParameter, "firestore-project-id is required when using firestore backend")
		}
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendBadger:
		dir := r.badgerDir
		if dir == "" {
			dir = DefaultBadgerDir()
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, goerr.Wrap(err, "failed to create badger directory", goerr.V("dir", dir))
		}
		repo, err := badger.New(dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize badger repository", goerr.V("dir", dir))
		}
		logging.Default().Info("Using embedded badger repository", "dir", dir)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}
