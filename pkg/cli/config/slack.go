package config

import (
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/service/slack"
	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for submission notification configuration
type Slack struct {
	botToken  string
	channelID string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for submission notifications (xoxb-...)",
			Sources:     cli.EnvVars("FIELDLINE_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID to post submission notifications to",
			Sources:     cli.EnvVars("FIELDLINE_SLACK_CHANNEL_ID"),
			Destination: &s.channelID,
		},
	}
}

// Configure builds the Slack notifier. Returns nil when not configured.
func (s *Slack) Configure() (interfaces.SubmissionNotifier, error) {
	if s.botToken == "" {
		return nil, nil
	}
	if s.channelID == "" {
		return nil, goerr.New("slack-channel-id is required when slack-bot-token is set")
	}

	notifier, err := slack.New(s.botToken, s.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Slack notifier")
	}

	logging.Default().Info("Slack notification enabled", "channel_id", s.channelID)
	return notifier, nil
}
