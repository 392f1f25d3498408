package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"
)

const alertSummaryMaxChars = 120

// Notifier posts Slack alerts. All methods are nil-receiver safe and
// best-effort: errors are logged and swallowed so alerting can never affect
// a classification response.
type Notifier struct {
	api       *slack.Client
	channelID string
}

func NewNotifier(cfg Config) *Notifier {
	if !cfg.SlackConfigured() {
		log.Println("No slack_bot_token configured, alerts disabled")
		return nil
	}
	return &Notifier{
		api:       slack.New(cfg.SlackBotToken),
		channelID: cfg.AlertChannelID,
	}
}

// NotifyCritical posts a one-line alert when a critical ticket is classified.
func (n *Notifier) NotifyCritical(ticket Ticket, result ClassificationResult) {
	if n == nil || ticket.Severity != SeverityCritical {
		return
	}
	summary := strings.TrimSpace(ticket.Summary)
	if len(summary) > alertSummaryMaxChars {
		summary = summary[:alertSummaryMaxChars] + "..."
	}
	msg := fmt.Sprintf(":rotating_light: Critical ticket classified as %s (confidence %.2f, channel %s): %s",
		result.Decision, result.Confidence, ticket.Channel, summary)
	n.post(msg)
}

// PostSummary posts a daily usage summary line.
func (n *Notifier) PostSummary(msg string) {
	if n == nil {
		return
	}
	n.post(msg)
}

func (n *Notifier) post(msg string) {
	if _, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionText(msg, false)); err != nil {
		log.Printf("slack alert error (non-fatal): %v", err)
	}
}
