package embedding

import (
	"context"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/panjf2000/ants/v2"
)

const (
	DefaultBatchSize   = 16
	DefaultConcurrency = 4
)

// Service generates chunk embeddings with a gollem LLM client. Batches run in parallel on an ants pool.
type Service struct {
	llmClient   gollem.LLMClient
	dimension   int
	batchSize   int
	concurrency int
	pool        *ants.Pool
}

var _ interfaces.Embedder = &Service{}

type Option func(*Service)

func WithBatchSize(n int) Option {
	return func(s *Service) {
		s.batchSize = n
	}
}

func WithConcurrency(n int) Option {
	return func(s *Service) {
		s.concurrency = n
	}
}

func WithDimension(d int) Option {
	return func(s *Service) {
		s.dimension = d
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.Wrap(model.ErrMissingCredential, "LLM client is required for embedding")
	}

	s := &Service{
		llmClient:   llmClient,
		dimension:   model.EmbeddingDimension,
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.batchSize <= 0 {
		s.batchSize = DefaultBatchSize
	}
	if s.concurrency <= 0 {
		s.concurrency = DefaultConcurrency
	}

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding worker pool", goerr.V("size", s.concurrency))
	}
	s.pool = pool

	return s, nil
}

// Close releases the worker pool
func (s *Service) Close() {
	s.pool.Release()
}

func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		batchStart, batch := start, texts[start:end]

		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			vectors, err := s.embedBatch(ctx, batch)
			if err != nil {
				setErr(goerr.Wrap(err, "failed to embed batch", goerr.V("offset", batchStart)))
				return
			}
			copy(results[batchStart:], vectors)
		}); err != nil {
			wg.Done()
			setErr(goerr.Wrap(err, "failed to submit embedding task"))
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (s *Service) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := s.llmClient.GenerateEmbedding(ctx, s.dimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}

	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(embeddings)))
	}

	result := make([][]float32, len(embeddings))
	for i, e := range embeddings {
		if len(e) == 0 {
			return nil, goerr.New("empty embedding returned", goerr.V("index", i))
		}
		// Convert float64 to float32
		v := make([]float32, len(e))
		for j, f := range e {
			v[j] = float32(f)
		}
		result[i] = v
	}
	return result, nil
}
