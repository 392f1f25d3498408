package main

import "strings"

// RuleProfile is the static signal definition for one category: keywords
// matched against the summary, plus the channels and severities the
// category claims as preferred.
type RuleProfile struct {
	Keywords            []string
	PreferredChannels   []Channel
	PreferredSeverities []Severity
}

const (
	keywordWeight  = 0.4
	channelWeight  = 0.3
	severityWeight = 0.3
)

// defaultRuleProfiles is immutable process-wide. The two preferred-channel
// sets must stay disjoint; chat and atm are deliberately claimed by neither.
var defaultRuleProfiles = map[Category]RuleProfile{
	CategoryTechnical: {
		Keywords: []string{
			"error", "bug", "crash", "timeout", "exception",
			"database", "api", "latency", "outage", "fail",
		},
		PreferredChannels:   []Channel{ChannelAPI, ChannelWeb, ChannelMobileApp},
		PreferredSeverities: []Severity{SeverityHigh, SeverityCritical},
	},
	CategoryOperational: {
		Keywords: []string{
			"password", "reset", "account", "balance", "verification",
			"statement", "dispute", "limit", "access", "transfer",
		},
		PreferredChannels:   []Channel{ChannelPhone, ChannelBranch, ChannelEmail},
		PreferredSeverities: []Severity{SeverityMedium},
	},
}

// ScoreTicket computes the deterministic rule score for one category profile:
// a weighted sum of the keyword hit fraction (0.4), a preferred-channel
// match (0.3), and a preferred-severity match (0.3). Always in [0, 1].
func ScoreTicket(ticket Ticket, profile RuleProfile) float64 {
	score := 0.0

	if len(profile.Keywords) > 0 {
		summary := strings.ToLower(ticket.Summary)
		matched := 0
		for _, keyword := range profile.Keywords {
			if strings.Contains(summary, keyword) {
				matched++
			}
		}
		score += float64(matched) / float64(len(profile.Keywords)) * keywordWeight
	}

	for _, channel := range profile.PreferredChannels {
		if ticket.Channel == channel {
			score += channelWeight
			break
		}
	}

	for _, severity := range profile.PreferredSeverities {
		if ticket.Severity == severity {
			score += severityWeight
			break
		}
	}

	return score
}
