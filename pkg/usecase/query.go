package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/local_answer.md
var localAnswerPromptTmpl string

var localAnswerPrompt = template.Must(template.New("local_answer").Parse(localAnswerPromptTmpl))

const (
	// groundingInstruction is appended to every question sent to the provider
	groundingInstruction = "Base your answer STRICTLY on the provided documents."

	// NoRelevantAnswer is returned when retrieval produced no text
	NoRelevantAnswer = "No relevant information found in your documents."

	// QueryFailureAnswer replaces the answer when the query failed
	QueryFailureAnswer = "Sorry, an error occurred while searching your documents. Please try again."
)

// QueryUseCase answers questions from the documents of a store
type QueryUseCase struct {
	repo      interfaces.Repository
	provider  interfaces.DocumentProvider
	embedder  interfaces.Embedder
	llmClient gollem.LLMClient
	pipeline  *config.PipelineConfig
}

func NewQueryUseCase(
	repo interfaces.Repository,
	provider interfaces.DocumentProvider,
	embedder interfaces.Embedder,
	llmClient gollem.LLMClient,
	pipeline *config.PipelineConfig,
) *QueryUseCase {
	return &QueryUseCase{
		repo:      repo,
		provider:  provider,
		embedder:  embedder,
		llmClient: llmClient,
		pipeline:  pipeline,
	}
}

// Query answers question from the store. Only a missing credential or a malformed store id is returned as an error;
// every other failure degrades into the apology answer.
func (uc *QueryUseCase) Query(ctx context.Context, storeID model.StoreID, question string) (*model.Answer, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkCredential(storeID); err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return &model.Answer{Text: NoRelevantAnswer}, nil
	}

	var (
		answer *model.Answer
		err    error
	)
	switch storeID.Mode() {
	case types.PipelineModeLocal:
		answer, err = uc.queryLocal(ctx, storeID, question)
	default:
		answer, err = uc.queryRemote(ctx, storeID, question)
	}
	if err != nil {
		_ = errutil.Handle(ctx, model.Fail(model.ErrQuery, err, "query failed",
			goerr.V(model.StoreIDKey, storeID)), "query degraded to apology answer")
		return &model.Answer{Text: QueryFailureAnswer}, nil
	}

	if strings.TrimSpace(answer.Text) == "" {
		answer.Text = NoRelevantAnswer
	}
	if answer.Passages == nil {
		answer.Passages = []model.GroundingPassage{}
	}

	logging.From(ctx).Info("Question answered",
		"store_id", storeID,
		"passages", len(answer.Passages))

	return answer, nil
}

func (uc *QueryUseCase) checkCredential(storeID model.StoreID) error {
	if storeID.Mode() == types.PipelineModeLocal {
		if uc.embedder == nil || uc.llmClient == nil {
			return goerr.Wrap(model.ErrMissingCredential, "local retrieval model is not configured")
		}
		return nil
	}
	if uc.provider == nil {
		return goerr.Wrap(model.ErrMissingCredential, "document provider is not configured")
	}
	return nil
}

func (uc *QueryUseCase) queryRemote(ctx context.Context, storeID model.StoreID, question string) (*model.Answer, error) {
	resp, err := uc.provider.GenerateGrounded(ctx, storeID, question+" "+groundingInstruction)
	if err != nil {
		return nil, err
	}
	return &model.Answer{
		Text:     resp.Text,
		Passages: resp.Passages,
	}, nil
}

type localAnswerPromptData struct {
	NoAnswer string
	Chunks   []*model.StoredChunk
}

func (uc *QueryUseCase) queryLocal(ctx context.Context, storeID model.StoreID, question string) (*model.Answer, error) {
	vector, chunks, err := uc.retrieve(ctx, storeID, question)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &model.Answer{}, nil
	}

	var buf bytes.Buffer
	if err := localAnswerPrompt.Execute(&buf, localAnswerPromptData{
		NoAnswer: NoRelevantAnswer,
		Chunks:   chunks,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render answer prompt")
	}

	session, err := uc.llmClient.NewSession(ctx, gollem.WithSessionSystemPrompt(buf.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}
	resp, err := session.GenerateContent(ctx, gollem.Text(question))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate answer")
	}

	passages := make([]model.GroundingPassage, len(chunks))
	for i, c := range chunks {
		index := c.Index
		score := model.CosineSimilarity(vector, c.Embedding)
		passages[i] = model.GroundingPassage{
			SourceFileName: c.SourceFileName,
			ChunkIndex:     &index,
			ExcerptText:    c.Text,
			RelevanceScore: &score,
		}
	}

	return &model.Answer{
		Text:     strings.Join(resp.Texts, "\n"),
		Passages: passages,
	}, nil
}

// retrieve returns the embedding of text and the stored chunks nearest to it
func (uc *QueryUseCase) retrieve(ctx context.Context, storeID model.StoreID, text string) ([]float32, []*model.StoredChunk, error) {
	vectors, err := uc.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to embed question")
	}
	if len(vectors) != 1 {
		return nil, nil, goerr.New("unexpected embedding count", goerr.V("count", len(vectors)))
	}

	chunks, err := uc.repo.Chunk().FindByEmbedding(ctx, storeID, vectors[0], uc.pipeline.TopK)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to search chunks", goerr.V(model.StoreIDKey, storeID))
	}
	return vectors[0], chunks, nil
}
