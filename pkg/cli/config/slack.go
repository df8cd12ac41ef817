package config

import (
	"log/slog"

	slacksvc "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken      string
	signingSecret string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for replying to mentions)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("FILESEARCH_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("FILESEARCH_SLACK_SIGNING_SECRET"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
	)
}

// Configure returns nil when no bot token is set
func (x *Slack) Configure() (slacksvc.Service, error) {
	if x.botToken == "" {
		return nil, nil
	}
	if x.signingSecret == "" {
		return nil, goerr.Wrap(ErrMissingParameter, "--slack-signing-secret is required with --slack-bot-token")
	}

	svc, err := slacksvc.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}
