package slack

import (
	"context"
	"fmt"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts a message to a configured channel when a form response is
// submitted.
type Notifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.SubmissionNotifier = &Notifier{}

// New creates a Slack notifier with the provided bot token and target
// channel ID
func New(token, channelID string) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

// NotifySubmission posts a Block Kit message summarizing the submission.
// Submitted values are intentionally not included; responses can carry PII
// and the channel only needs to know a response arrived.
func (n *Notifier) NotifySubmission(ctx context.Context, form *model.Form, resp *model.FormResponse) error {
	blocks := buildSubmissionBlocks(form, resp)
	fallback := fmt.Sprintf("New response for %q", form.Title)

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post submission notification",
			goerr.V("channel_id", n.channelID), goerr.V(model.FormIDKey, form.ID))
	}
	return nil
}

func buildSubmissionBlocks(form *model.Form, resp *model.FormResponse) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, "New form response", false, false),
	)

	source := "internal"
	if resp.Source == model.ResponseSourcePublicLink {
		source = "public link"
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Form:*\n%s", form.Title), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Source:*\n%s", source), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Response ID:*\n%s", resp.ID), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Submitted:*\n%s", resp.SubmittedAt.Format("2006-01-02 15:04 MST")), false, false),
	}

	return []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}
}
