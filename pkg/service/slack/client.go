package slack

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api    *slack.Client
	apiURL string

	mu        sync.Mutex
	botUserID string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{}
	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

func (c *client) GetBotUserID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.botUserID != "" {
		return c.botUserID, nil
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call auth.test")
	}
	c.botUserID = resp.UserID
	return c.botUserID, nil
}

func (c *client) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post thread reply",
			goerr.V("channel_id", channelID),
			goerr.V("thread_ts", threadTS))
	}
	return ts, nil
}

func (c *client) PostThreadMessage(ctx context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post thread message",
			goerr.V("channel_id", channelID),
			goerr.V("thread_ts", threadTS))
	}
	return ts, nil
}
