package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/interfaces"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	slacksvc "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/slack"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
)

const (
	linkCommand = "link"

	// unboundChannelHint is posted when a question arrives in a channel without a store
	unboundChannelHint = "This channel is not linked to a knowledge store yet. Mention me with `link <storeId>` to link one."
)

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>`)

// SlackUseCases answers questions mentioned to the bot from the store bound to the channel
type SlackUseCases struct {
	repo         interfaces.Repository
	query        *QueryUseCase
	slackService slacksvc.Service
}

func NewSlackUseCases(repo interfaces.Repository, query *QueryUseCase, slackService slacksvc.Service) *SlackUseCases {
	return &SlackUseCases{
		repo:         repo,
		query:        query,
		slackService: slackService,
	}
}

// HandleSlackEvent processes Slack Events API callbacks. Only app mentions are acted on.
func (uc *SlackUseCases) HandleSlackEvent(ctx context.Context, event *slackevents.EventsAPIEvent) error {
	mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		logging.From(ctx).Debug("ignoring slack event", "type", event.Type, "innerType", event.InnerEvent.Type)
		return nil
	}
	return uc.HandleMention(ctx, mention)
}

// HandleMention binds the channel on "link <storeId>" and answers anything else in the mention's thread
func (uc *SlackUseCases) HandleMention(ctx context.Context, ev *slackevents.AppMentionEvent) error {
	logger := logging.From(ctx)

	// Skip the bot's own messages to avoid reply loops
	if ev.BotID != "" {
		return nil
	}
	botUserID, err := uc.slackService.GetBotUserID(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to get bot user ID")
	}
	if ev.User == botUserID {
		logger.Debug("skipping bot's own message", "user_id", ev.User)
		return nil
	}

	threadTS := ev.ThreadTimeStamp
	if threadTS == "" {
		threadTS = ev.TimeStamp
	}

	text := strings.TrimSpace(mentionPattern.ReplaceAllString(ev.Text, ""))
	if text == "" {
		return nil
	}

	if fields := strings.Fields(text); strings.EqualFold(fields[0], linkCommand) {
		return uc.bindChannel(ctx, ev.Channel, threadTS, fields[1:])
	}

	binding, err := uc.repo.Binding().Get(ctx, ev.Channel)
	if err != nil {
		return goerr.Wrap(err, "failed to get channel binding", goerr.V("channel_id", ev.Channel))
	}
	if binding == nil {
		return uc.reply(ctx, ev.Channel, threadTS, unboundChannelHint)
	}

	answer, err := uc.query.Query(ctx, binding.StoreID, text)
	if err != nil {
		if replyErr := uc.reply(ctx, ev.Channel, threadTS, "⚠️ "+model.Describe(err)); replyErr != nil {
			logger.Error("failed to post error message to Slack", "error", replyErr.Error())
		}
		return goerr.Wrap(err, "failed to answer question", goerr.V("channel_id", ev.Channel))
	}

	if _, err := uc.slackService.PostThreadMessage(ctx, ev.Channel, threadTS, slacksvc.AnswerBlocks(answer), answer.Text); err != nil {
		return goerr.Wrap(err, "failed to post answer", goerr.V("channel_id", ev.Channel))
	}

	logger.Info("Answered slack question",
		"channel_id", ev.Channel,
		"store_id", binding.StoreID,
		"passages", len(answer.Passages))
	return nil
}

func (uc *SlackUseCases) bindChannel(ctx context.Context, channelID, threadTS string, args []string) error {
	if len(args) == 0 {
		return uc.reply(ctx, channelID, threadTS, "Usage: `link <storeId>`")
	}

	storeID := model.NormalizeStoreID(args[0])
	if err := storeID.Validate(); err != nil {
		return uc.reply(ctx, channelID, threadTS, "Invalid store id: `"+args[0]+"`")
	}

	if err := uc.repo.Binding().Put(ctx, &model.ChannelBinding{
		ChannelID: channelID,
		StoreID:   storeID,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return goerr.Wrap(err, "failed to save channel binding",
			goerr.V("channel_id", channelID),
			goerr.V(model.StoreIDKey, storeID))
	}

	logging.From(ctx).Info("Channel linked to store",
		"channel_id", channelID,
		"store_id", storeID)

	return uc.reply(ctx, channelID, threadTS, "✅ This channel now answers from `"+storeID.String()+"`")
}

func (uc *SlackUseCases) reply(ctx context.Context, channelID, threadTS, text string) error {
	if _, err := uc.slackService.PostThreadReply(ctx, channelID, threadTS, text); err != nil {
		return goerr.Wrap(err, "failed to post thread reply", goerr.V("channel_id", channelID))
	}
	return nil
}
