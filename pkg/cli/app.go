package cli

import (
	"context"
	"errors"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/chunking"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/embedding"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/usecase"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// appConfig groups the configuration shared by every command that works on stores
type appConfig struct {
	auth     config.Auth
	gemini   config.Gemini
	repo     config.Repository
	pipeline config.Pipeline
	extract  config.Extract
	archive  config.Archive
}

func (a *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, a.auth.Flags()...)
	flags = append(flags, a.gemini.Flags()...)
	flags = append(flags, a.repo.Flags()...)
	flags = append(flags, a.pipeline.Flags()...)
	flags = append(flags, a.extract.Flags()...)
	flags = append(flags, a.archive.Flags()...)
	return flags
}

// app is the assembled client context of one command invocation
type app struct {
	uc       *usecase.UseCases
	repo     interfaces.Repository
	provider interfaces.DocumentProvider
	session  *config.Session

	sessionPath string
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build wires repository, provider and pipeline services into use cases.
// A missing credential is not an error here; operations needing the provider report it.
func (a *appConfig) build(ctx context.Context, opts ...usecase.Option) (*app, error) {
	logger := logging.Default()

	settings, err := a.pipeline.Configure()
	if err != nil {
		return nil, err
	}

	session, err := config.LoadSession(a.auth.SessionPath())
	if err != nil {
		return nil, err
	}

	repo, err := a.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	result := &app{
		repo:        repo,
		session:     session,
		sessionPath: a.auth.SessionPath(),
	}
	result.closers = append(result.closers, func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close repository", "error", err.Error())
		}
	})

	ucOpts := []usecase.Option{usecase.WithPipelineConfig(settings.Pipeline)}

	credential, err := a.auth.Resolve()
	switch {
	case err == nil:
		provider, err := a.gemini.ConfigureProvider(ctx, credential, settings.Pipeline)
		if err != nil {
			result.Close()
			return nil, err
		}
		result.provider = provider
		ucOpts = append(ucOpts, usecase.WithProvider(provider))
	case errors.Is(err, model.ErrMissingCredential):
		logger.Warn("No API key configured, remote stores are unavailable")
	default:
		result.Close()
		return nil, err
	}

	llmClient, err := a.gemini.ConfigureLLM(ctx)
	if err != nil {
		result.Close()
		return nil, err
	}
	if llmClient != nil {
		embedder, err := embedding.New(llmClient, settings.EmbeddingOptions...)
		if err != nil {
			result.Close()
			return nil, goerr.Wrap(err, "failed to configure embedder")
		}
		result.closers = append(result.closers, embedder.Close)
		ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient), usecase.WithEmbedder(embedder))
	}

	chunker, err := chunking.New(settings.ChunkStrategy, settings.Chunking)
	if err != nil {
		result.Close()
		return nil, goerr.Wrap(err, "failed to configure chunker")
	}
	ucOpts = append(ucOpts, usecase.WithChunker(chunker), usecase.WithExtractor(a.extract.Configure()))

	archive, err := a.archive.Configure(ctx)
	if err != nil {
		result.Close()
		return nil, err
	}
	if archive != nil {
		ucOpts = append(ucOpts, usecase.WithArchive(archive))
	}

	result.uc = usecase.New(repo, append(ucOpts, opts...)...)

	logger.Info("Client configured",
		"pipeline", a.pipeline,
		"archive", a.archive,
		"extract", a.extract,
		"remote", result.provider != nil,
		"local", llmClient != nil,
	)
	return result, nil
}

// storeID resolves the store to operate on: the flag, then the session, then the master store of the catalog
func (a *app) storeID(ctx context.Context, flag string) (model.StoreID, error) {
	raw := flag
	if raw == "" {
		raw = a.session.StoreID
	}
	if raw == "" {
		id, err := a.uc.Store.MasterStore(ctx)
		if err != nil {
			return "", err
		}
		raw = id.String()
	}
	if raw == "" {
		return "", goerr.Wrap(model.ErrInvalidStoreID, "no store selected",
			goerr.V("hint", "pass --store or run `filesearch create-store`"))
	}

	id := model.NormalizeStoreID(raw)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// rememberStore records id as the session's store and the catalog's master store
func (a *app) rememberStore(ctx context.Context, id model.StoreID) error {
	if _, err := a.uc.Store.UseStore(ctx, id.String()); err != nil {
		return err
	}
	a.session.StoreID = id.String()
	return config.SaveSession(a.sessionPath, a.session)
}

func storeFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "store",
		Aliases:     []string{"s"},
		Usage:       "Store id (fileSearchStores/<id> or bare id). Defaults to the last used store",
		Sources:     cli.EnvVars("FILESEARCH_STORE"),
		Destination: dest,
	}
}
