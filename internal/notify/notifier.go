package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"testcase_generator/internal/model"
)

// Notifier announces finished exports
type Notifier interface {
	NotifyExport(ctx context.Context, report model.ExportReport) error
}

// NopNotifier drops every notification
type NopNotifier struct{}

func (NopNotifier) NotifyExport(context.Context, model.ExportReport) error { return nil }

// SlackNotifier posts an export summary to one Slack channel
type SlackNotifier struct {
	api     *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier posting with the bot token.
// Extra options are passed to slack.New (tests use slack.OptionAPIURL).
func NewSlackNotifier(token, channel string, options ...slack.Option) *SlackNotifier {
	return &SlackNotifier{
		api:     slack.New(token, options...),
		channel: channel,
	}
}

func (n *SlackNotifier) NotifyExport(ctx context.Context, report model.ExportReport) error {
	blockText := slack.NewTextBlockObject(slack.MarkdownType, exportMarkdown(report), false, false)
	section := slack.NewSectionBlock(blockText, nil, nil)

	_, _, err := n.api.PostMessageContext(ctx,
		n.channel,
		slack.MsgOptionText(exportHeadline(report), false),
		slack.MsgOptionBlocks(section))
	if err != nil {
		return fmt.Errorf("failed to post export summary to %s: %w", n.channel, err)
	}
	return nil
}

func exportHeadline(report model.ExportReport) string {
	target := report.ProjectKey
	if report.ParentKey != "" {
		target = report.ParentKey
	}
	return fmt.Sprintf("Exported %d of %d test cases to %s", len(report.Created), report.Total(), target)
}

func exportMarkdown(report model.ExportReport) string {
	var b strings.Builder
	b.WriteString("*" + exportHeadline(report) + "*")
	for _, c := range report.Created {
		fmt.Fprintf(&b, "\n:white_check_mark: %s <%s|%s>", c.TestCaseID, c.URL, c.Key)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(&b, "\n:x: %s %s", f.TestCaseID, f.Error)
	}
	return b.String()
}
