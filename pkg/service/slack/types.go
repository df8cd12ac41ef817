package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides the Slack API operations used by the question answering bot
type Service interface {
	// GetBotUserID returns the user ID of the bot itself. The result is cached.
	GetBotUserID(ctx context.Context) (string, error)

	// PostThreadReply posts a plain text reply in a thread and returns the message timestamp
	PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error)

	// PostThreadMessage posts a Block Kit reply in a thread. text is the notification fallback.
	PostThreadMessage(ctx context.Context, channelID, threadTS string, blocks []slack.Block, text string) (string, error)
}
