package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/service/slack"
	"github.com/secmon-lab/cisboard/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the notification channel
type Slack struct {
	botToken  string
	channelID string
	cacheTTL  time.Duration
}

// Flags returns CLI flags for Slack notifications
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for lead, contact and service request notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("CISBOARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("CISBOARD_SLACK_CHANNEL_ID"),
		},
		&cli.DurationFlag{
			Name:        "slack-cache-ttl",
			Usage:       "How long channel metadata stays cached",
			Category:    "Slack",
			Value:       slack.DefaultCacheTTL,
			Destination: &x.cacheTTL,
			Sources:     cli.EnvVars("CISBOARD_SLACK_CACHE_TTL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns the Slack notifier, or nil when Slack is not configured
func (x *Slack) Configure(ctx context.Context) (interfaces.Notifier, error) {
	if x.botToken == "" && x.channelID == "" {
		logging.Default().Info("Slack not configured, notifications are disabled")
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrMissingFlag, "--slack-bot-token and --slack-channel-id must be set together")
	}

	client, err := slack.New(x.botToken, x.channelID, slack.WithCacheTTL(x.cacheTTL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}

	name, err := client.ChannelName(ctx)
	if err != nil {
		logging.Default().Warn("failed to resolve slack channel name", "channel_id", x.channelID, "error", err)
	}
	logging.Default().Info("Slack notifications enabled", "channel_id", x.channelID, "channel_name", name)
	return client, nil
}
