package config

import (
	"context"
	"log/slog"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/archive"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Archive backends
const (
	ArchiveGCS   = "gcs"
	ArchiveMinIO = "minio"
)

// Archive configures where original documents are kept. Archiving is disabled when no backend is set.
type Archive struct {
	backend string
	bucket  string
	prefix  string

	endpoint  string
	accessKey string
	secretKey string
	region    string
	useSSL    bool
}

func (x *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "archive-backend",
			Usage:       "Keep original documents in object storage (gcs, minio)",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_ARCHIVE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Bucket name",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_ARCHIVE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "archive-prefix",
			Usage:       "Object name prefix",
			Category:    "Archive",
			Value:       "documents/",
			Sources:     cli.EnvVars("FILESEARCH_ARCHIVE_PREFIX"),
			Destination: &x.prefix,
		},
		&cli.StringFlag{
			Name:        "minio-endpoint",
			Usage:       "S3 compatible endpoint (host:port)",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_MINIO_ENDPOINT"),
			Destination: &x.endpoint,
		},
		&cli.StringFlag{
			Name:        "minio-access-key",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_MINIO_ACCESS_KEY"),
			Destination: &x.accessKey,
		},
		&cli.StringFlag{
			Name:        "minio-secret-key",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_MINIO_SECRET_KEY"),
			Destination: &x.secretKey,
		},
		&cli.StringFlag{
			Name:        "minio-region",
			Category:    "Archive",
			Sources:     cli.EnvVars("FILESEARCH_MINIO_REGION"),
			Destination: &x.region,
		},
		&cli.BoolFlag{
			Name:        "minio-use-ssl",
			Category:    "Archive",
			Value:       true,
			Sources:     cli.EnvVars("FILESEARCH_MINIO_USE_SSL"),
			Destination: &x.useSSL,
		},
	}
}

func (x Archive) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
		slog.String("endpoint", x.endpoint),
		slog.Int("secret-key.len", len(x.secretKey)),
	)
}

// Configure returns nil when archiving is disabled
func (x *Archive) Configure(ctx context.Context) (interfaces.Archive, error) {
	if x.backend == "" {
		return nil, nil
	}
	if x.bucket == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "archive-bucket is required", goerr.V(BackendKey, x.backend))
	}

	switch x.backend {
	case ArchiveGCS:
		a, err := archive.NewGCS(ctx, x.bucket, x.prefix)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure GCS archive")
		}
		logging.Default().Info("Archiving documents to GCS", "bucket", x.bucket)
		return a, nil

	case ArchiveMinIO:
		if x.endpoint == "" {
			return nil, goerr.Wrap(ErrMissingParameter, "minio-endpoint is required", goerr.V(BackendKey, x.backend))
		}
		a, err := archive.NewMinIO(archive.MinIOConfig{
			Endpoint:  x.endpoint,
			AccessKey: x.accessKey,
			SecretKey: x.secretKey,
			Bucket:    x.bucket,
			Prefix:    x.prefix,
			Region:    x.region,
			UseSSL:    x.useSSL,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure MinIO archive")
		}
		logging.Default().Info("Archiving documents to S3 compatible storage", "endpoint", x.endpoint, "bucket", x.bucket)
		return a, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid archive backend", goerr.V(BackendKey, x.backend))
	}
}
