package usecase

import (
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	slacksvc "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/slack"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/keylock"
	"github.com/m-mizutani/gollem"
)

// UseCases is the client context of one process. It is built once and shared by the CLI, HTTP and chat entry points.
type UseCases struct {
	repo         interfaces.Repository
	provider     interfaces.DocumentProvider
	extractor    interfaces.Extractor
	chunker      interfaces.Chunker
	embedder     interfaces.Embedder
	archive      interfaces.Archive
	llmClient    gollem.LLMClient
	slackService slacksvc.Service
	pipeline     *config.PipelineConfig
	locks        *keylock.Locker

	Store   *StoreUseCase
	Ingest  *IngestUseCase
	Link    *LinkUseCase
	Query   *QueryUseCase
	Catalog *CatalogUseCase
	Build   *BuildUseCase
	Slack   *SlackUseCases
}

type Option func(*UseCases)

// WithProvider sets the remote document provider. Without it remote stores fail with ErrMissingCredential.
func WithProvider(provider interfaces.DocumentProvider) Option {
	return func(uc *UseCases) {
		uc.provider = provider
	}
}

func WithExtractor(extractor interfaces.Extractor) Option {
	return func(uc *UseCases) {
		uc.extractor = extractor
	}
}

func WithChunker(chunker interfaces.Chunker) Option {
	return func(uc *UseCases) {
		uc.chunker = chunker
	}
}

func WithEmbedder(embedder interfaces.Embedder) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithArchive keeps a copy of every ingested document
func WithArchive(archive interfaces.Archive) Option {
	return func(uc *UseCases) {
		uc.archive = archive
	}
}

// WithLLMClient sets the model answering questions of local stores
func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

func WithSlackService(svc slacksvc.Service) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
	}
}

func WithPipelineConfig(cfg *config.PipelineConfig) Option {
	return func(uc *UseCases) {
		uc.pipeline = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		pipeline: config.DefaultPipelineConfig(),
		locks:    keylock.New(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Store = NewStoreUseCase(repo, uc.provider, uc.pipeline)
	uc.Ingest = NewIngestUseCase(uc.provider, uc.extractor, uc.chunker, uc.embedder, uc.archive, uc.pipeline)
	uc.Link = NewLinkUseCase(repo, uc.provider, uc.locks, uc.pipeline)
	uc.Query = NewQueryUseCase(repo, uc.provider, uc.embedder, uc.llmClient, uc.pipeline)
	uc.Catalog = NewCatalogUseCase(repo, uc.provider)
	uc.Build = NewBuildUseCase(uc.Ingest, uc.Link, uc.Query)
	if uc.slackService != nil {
		uc.Slack = NewSlackUseCases(repo, uc.Query, uc.slackService)
	}

	return uc
}

// Pipeline returns the effective pipeline settings
func (uc *UseCases) Pipeline() *config.PipelineConfig {
	return uc.pipeline
}

// Locks returns the per-record locker used by the Linker. Background jobs touching records must share it.
func (uc *UseCases) Locks() *keylock.Locker {
	return uc.locks
}
