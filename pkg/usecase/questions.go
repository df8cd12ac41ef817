package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/types"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/suggest_questions.md
var suggestQuestionsPromptTmpl string

var suggestQuestionsPrompt = template.Must(template.New("suggest_questions").Parse(suggestQuestionsPromptTmpl))

// overviewQuery selects the chunks used as context when suggesting questions for a local store
const overviewQuery = "main topics, summary and key points of the documents"

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// questionParser reads a JSON array of strings from one representation of the model output
type questionParser struct {
	name  string
	parse func(text string) ([]string, bool)
}

// questionParsers are tried in order; the first one producing a non-empty list wins
var questionParsers = []questionParser{
	{name: "fenced", parse: parseFencedQuestions},
	{name: "raw", parse: parseRawQuestions},
	{name: "bracket", parse: parseBracketQuestions},
}

func parseFencedQuestions(text string) ([]string, bool) {
	m := fencedBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return decodeQuestions(m[1])
}

func parseRawQuestions(text string) ([]string, bool) {
	return decodeQuestions(text)
}

func parseBracketQuestions(text string) ([]string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeQuestions(text[start : end+1])
}

func decodeQuestions(s string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &items); err != nil {
		return nil, false
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		var q string
		switch v := item.(type) {
		case string:
			q = v
		case map[string]any:
			q = questionField(v)
		default:
			continue
		}
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, len(questions) > 0
}

// questionFields are the keys read from object items such as {"question": "..."}
var questionFields = []string{"question", "text", "q"}

func questionField(item map[string]any) string {
	for _, key := range questionFields {
		if s, ok := item[key].(string); ok {
			return s
		}
	}
	return ""
}

// parseQuestions extracts at most limit questions from the model output
func parseQuestions(text string, limit int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, goerr.Wrap(model.ErrQuestionSuggestion, "model returned no text")
	}

	for _, p := range questionParsers {
		if questions, ok := p.parse(text); ok {
			if limit > 0 && len(questions) > limit {
				questions = questions[:limit]
			}
			return questions, nil
		}
	}

	return nil, goerr.Wrap(model.ErrQuestionSuggestion, "no JSON array of questions in model output",
		goerr.V("text", text))
}

type suggestQuestionsPromptData struct {
	Count  int
	Chunks []*model.StoredChunk
}

// SuggestQuestions returns example questions answerable from the store. It always returns a non-empty list:
// any failure yields the configured fallback questions.
func (uc *QueryUseCase) SuggestQuestions(ctx context.Context, storeID model.StoreID) []string {
	questions, err := uc.suggestQuestions(ctx, storeID)
	if err != nil {
		_ = errutil.Handle(ctx, model.Fail(model.ErrQuestionSuggestion, err, "question suggestion failed",
			goerr.V(model.StoreIDKey, storeID)), "using fallback questions")
		return uc.fallbackQuestions()
	}
	return questions
}

func (uc *QueryUseCase) suggestQuestions(ctx context.Context, storeID model.StoreID) ([]string, error) {
	if err := storeID.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkCredential(storeID); err != nil {
		return nil, err
	}

	count := uc.pipeline.SuggestionCount
	if count <= 0 {
		count = len(uc.fallbackQuestions())
	}

	var (
		text string
		err  error
	)
	switch storeID.Mode() {
	case types.PipelineModeLocal:
		text, err = uc.suggestLocal(ctx, storeID, count)
	default:
		text, err = uc.suggestRemote(ctx, storeID, count)
	}
	if err != nil {
		return nil, err
	}

	return parseQuestions(text, count)
}

func (uc *QueryUseCase) suggestRemote(ctx context.Context, storeID model.StoreID, count int) (string, error) {
	prompt := fmt.Sprintf("Generate %d short questions about the content of these documents. Return ONLY a JSON array of strings.", count)
	resp, err := uc.provider.GenerateGrounded(ctx, storeID, prompt)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (uc *QueryUseCase) suggestLocal(ctx context.Context, storeID model.StoreID, count int) (string, error) {
	_, chunks, err := uc.retrieve(ctx, storeID, overviewQuery)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", goerr.Wrap(model.ErrQuestionSuggestion, "store has no documents", goerr.V(model.StoreIDKey, storeID))
	}

	var buf bytes.Buffer
	if err := suggestQuestionsPrompt.Execute(&buf, suggestQuestionsPromptData{
		Count:  count,
		Chunks: chunks,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render question prompt")
	}

	schema := &gollem.Parameter{
		Title:       "SuggestedQuestions",
		Description: "Questions a reader could ask about the documents",
		Type:        gollem.TypeArray,
		Items: &gollem.Parameter{
			Type: gollem.TypeString,
		},
	}

	session, err := uc.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate questions")
	}
	return strings.Join(resp.Texts, "\n"), nil
}

func (uc *QueryUseCase) fallbackQuestions() []string {
	if len(uc.pipeline.FallbackQuestions) > 0 {
		return append([]string(nil), uc.pipeline.FallbackQuestions...)
	}
	return append([]string(nil), config.DefaultFallbackQuestions...)
}
