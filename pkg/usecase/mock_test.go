package usecase_test

import (
	"context"
	"sync"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/gollem"
	"github.com/slack-go/slack"
)

// mockProvider is a mock implementation of interfaces.DocumentProvider
type mockProvider struct {
	mu sync.Mutex

	createStoreFn      func(ctx context.Context, displayName string) (model.RawResponse, error)
	deleteStoreFn      func(ctx context.Context, storeID model.StoreID) error
	uploadFileFn       func(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error)
	getFileFn          func(ctx context.Context, name string) (*model.RemoteFile, error)
	importFileFn       func(ctx context.Context, storeID model.StoreID, fileName string) (string, error)
	listDocumentsFn    func(ctx context.Context, storeID model.StoreID) ([]*model.RemoteDocument, error)
	deleteDocumentFn   func(ctx context.Context, documentName string) error
	generateGroundedFn func(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error)

	calls []string
}

func (m *mockProvider) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockProvider) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockProvider) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockProvider) CreateStore(ctx context.Context, displayName string) (model.RawResponse, error) {
	m.record("CreateStore")
	if m.createStoreFn != nil {
		return m.createStoreFn(ctx, displayName)
	}
	return model.RawResponse{"name": "fileSearchStores/default"}, nil
}

func (m *mockProvider) DeleteStore(ctx context.Context, storeID model.StoreID) error {
	m.record("DeleteStore")
	if m.deleteStoreFn != nil {
		return m.deleteStoreFn(ctx, storeID)
	}
	return nil
}

func (m *mockProvider) UploadFile(ctx context.Context, doc *model.SourceDocument) (*model.RemoteFile, error) {
	m.record("UploadFile")
	if m.uploadFileFn != nil {
		return m.uploadFileFn(ctx, doc)
	}
	return nil, nil
}

func (m *mockProvider) GetFile(ctx context.Context, name string) (*model.RemoteFile, error) {
	m.record("GetFile")
	if m.getFileFn != nil {
		return m.getFileFn(ctx, name)
	}
	return nil, nil
}

func (m *mockProvider) ImportFile(ctx context.Context, storeID model.StoreID, fileName string) (string, error) {
	m.record("ImportFile")
	if m.importFileFn != nil {
		return m.importFileFn(ctx, storeID, fileName)
	}
	return "", nil
}

func (m *mockProvider) ListDocuments(ctx context.Context, storeID model.StoreID) ([]*model.RemoteDocument, error) {
	m.record("ListDocuments")
	if m.listDocumentsFn != nil {
		return m.listDocumentsFn(ctx, storeID)
	}
	return nil, nil
}

func (m *mockProvider) DeleteDocument(ctx context.Context, documentName string) error {
	m.record("DeleteDocument")
	if m.deleteDocumentFn != nil {
		return m.deleteDocumentFn(ctx, documentName)
	}
	return nil
}

func (m *mockProvider) GenerateGrounded(ctx context.Context, storeID model.StoreID, prompt string) (*model.GroundedResponse, error) {
	m.record("GenerateGrounded")
	if m.generateGroundedFn != nil {
		return m.generateGroundedFn(ctx, storeID, prompt)
	}
	return &model.GroundedResponse{}, nil
}

type mockExtractor struct {
	extractFn func(ctx context.Context, doc *model.SourceDocument) (string, error)
}

func (m *mockExtractor) Extract(ctx context.Context, doc *model.SourceDocument) (string, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, doc)
	}
	return string(doc.Content), nil
}

type mockChunker struct {
	splitFn func(text string) ([]string, error)
}

func (m *mockChunker) Split(text string) ([]string, error) {
	if m.splitFn != nil {
		return m.splitFn(text)
	}
	return []string{text}, nil
}

// mockEmbedder returns a vector derived from the text length unless embedFn is set
type mockEmbedder struct {
	embedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = []float32{float32(len(t)), 1}
	}
	return vectors, nil
}

type mockArchive struct {
	putFn func(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) error
}

func (m *mockArchive) Put(ctx context.Context, storeID model.StoreID, doc *model.SourceDocument) error {
	if m.putFn != nil {
		return m.putFn(ctx, storeID, doc)
	}
	return nil
}

// mockLLMClient is a mock implementation of gollem.LLMClient
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if m.newSessionFn != nil {
		return m.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

// mockLLMSession is a mock implementation of gollem.Session
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (m *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if m.generateContentFn != nil {
		return m.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{}}, nil
}

func (m *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (m *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (m *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (m *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

func newTextClient(texts ...string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: texts}, nil
				},
			}, nil
		},
	}
}

type postedReply struct {
	ChannelID string
	ThreadTS  string
	Text      string
	Blocks    []slack.Block
}

// mockSlackService is a mock implementation of slack.Service
type mockSlackService struct {
	mu             sync.Mutex
	getBotUserIDFn func(ctx context.Context) (string, error)
	posted         []postedReply
}

func (m *mockSlackService) GetBotUserID(ctx context.Context) (string, error) {
	if m.getBotUserIDFn != nil {
		return m.getBotUserIDFn(ctx)
	}
	return "UBOT", nil
}

func (m *mockSlackService) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, postedReply{ChannelID: channelID, ThreadTS: threadTS, Text: text})
	return "1234567890.000001", nil
}

func (m *mockSlackService) PostThreadMessage(ctx context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, postedReply{ChannelID: channelID, ThreadTS: threadTS, Text: text, Blocks: blocks})
	return "1234567890.000002", nil
}

func (m *mockSlackService) replies() []postedReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]postedReply(nil), m.posted...)
}
