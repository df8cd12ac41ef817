package gemini

import (
	"context"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

const (
	DefaultModel             = "gemini-2.5-flash"
	DefaultOperationInterval = 2 * time.Second
	DefaultOperationPolls    = 30
)

// Client implements interfaces.DocumentProvider on top of the Gemini File Search API
type Client struct {
	genai *genai.Client

	model             string
	baseURL           string
	operationInterval time.Duration
	operationPolls    int
}

var _ interfaces.DocumentProvider = &Client{}

type Option func(*Client)

// WithModel sets the model used for grounded generation
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithOperationPolling sets how import operations are polled until done
func WithOperationPolling(interval time.Duration, maxPolls int) Option {
	return func(c *Client) {
		c.operationInterval = interval
		c.operationPolls = maxPolls
	}
}

// New creates a client. The API key is sent in the request header by the SDK, never in the URL.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(model.ErrMissingCredential, "API key is required for Gemini client")
	}

	c := &Client{
		model:             DefaultModel,
		operationInterval: DefaultOperationInterval,
		operationPolls:    DefaultOperationPolls,
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}
	c.genai = client

	return c, nil
}

func (c *Client) Model() string {
	return c.model
}
