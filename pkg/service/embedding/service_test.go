package embedding_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/embedding"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, errors.New("not implemented")
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}
	return nil, nil
}

// lengthEmbedding encodes the text length so the order of results can be checked
func lengthEmbedding(dimension int, input []string) [][]float64 {
	out := make([][]float64, len(input))
	for i, s := range input {
		v := make([]float64, dimension)
		v[0] = float64(len(s))
		out[i] = v
	}
	return out
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := embedding.New(nil)
	gt.Error(t, err).Is(model.ErrMissingCredential)
}

func TestService_Embed(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps input order across batches", func(t *testing.T) {
		var calls atomic.Int32
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				calls.Add(1)
				gt.Value(t, dimension).Equal(model.EmbeddingDimension)
				return lengthEmbedding(dimension, input), nil
			},
		}
		svc, err := embedding.New(llm, embedding.WithBatchSize(2), embedding.WithConcurrency(3))
		gt.NoError(t, err).Required()
		defer svc.Close()

		texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
		vectors, err := svc.Embed(ctx, texts)
		gt.NoError(t, err).Required()
		gt.Array(t, vectors).Length(5)
		for i, v := range vectors {
			gt.Value(t, len(v)).Equal(model.EmbeddingDimension)
			gt.Value(t, v[0]).Equal(float32(i + 1))
		}
		gt.Value(t, calls.Load()).Equal(int32(3))
	})

	t.Run("empty input does not call the model", func(t *testing.T) {
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				t.Error("unexpected call")
				return nil, nil
			},
		}
		svc, err := embedding.New(llm)
		gt.NoError(t, err).Required()
		defer svc.Close()

		vectors, err := svc.Embed(ctx, nil)
		gt.NoError(t, err).Required()
		gt.Array(t, vectors).Length(0)
	})

	t.Run("model error fails the whole call", func(t *testing.T) {
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				if input[0] == "ccc" {
					return nil, errors.New("quota exceeded")
				}
				return lengthEmbedding(dimension, input), nil
			},
		}
		svc, err := embedding.New(llm, embedding.WithBatchSize(2))
		gt.NoError(t, err).Required()
		defer svc.Close()

		_, err = svc.Embed(ctx, []string{"a", "bb", "ccc", "dddd"})
		gt.Value(t, err).NotNil()
		gt.String(t, err.Error()).Contains("failed to embed batch")
	})

	t.Run("count mismatch is an error", func(t *testing.T) {
		llm := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return lengthEmbedding(dimension, input[:1]), nil
			},
		}
		svc, err := embedding.New(llm)
		gt.NoError(t, err).Required()
		defer svc.Close()

		_, err = svc.Embed(ctx, []string{"a", "b"})
		gt.Value(t, err).NotNil()
	})
}

func TestService_WithRealGemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT not set")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		t.Skip("TEST_GEMINI_LOCATION not set")
	}

	ctx := context.Background()
	llmClient, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	svc, err := embedding.New(llmClient)
	gt.NoError(t, err).Required()
	defer svc.Close()

	vectors, err := svc.Embed(ctx, []string{"warranty lasts two years", "installation guide"})
	gt.NoError(t, err).Required()
	gt.Array(t, vectors).Length(2)
	gt.Value(t, len(vectors[0])).Equal(model.EmbeddingDimension)
}
