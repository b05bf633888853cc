package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts ops alerts to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) SendOpsAlert(ctx context.Context, alert notifier.Alert, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatOpsAlert(alert), dryRun)
	return err
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncOpsAlertFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncOpsAlertSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// formatOpsAlert renders an alert as a header, the detail text and a context line of fields.
func formatOpsAlert(alert notifier.Alert) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", ":rotating_light: "+alert.Title, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if alert.Detail != "" {
		detail := slack.NewTextBlockObject("mrkdwn", "```"+alert.Detail+"```", false, false)
		blocks = append(blocks, slack.NewSectionBlock(detail, nil, nil))
	}

	if len(alert.Fields) > 0 {
		lines := make([]string, 0, len(alert.Fields))
		for _, f := range alert.Fields {
			lines = append(lines, fmt.Sprintf("*%s:* %s", f.Label, f.Value))
		}
		fields := slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false)
		blocks = append(blocks, slack.NewContextBlock("", fields))
	}

	return slack.NewBlockMessage(blocks...)
}
