package main

import "testing"

func TestScoreTicketSignals(t *testing.T) {
	profile := defaultRuleProfiles[CategoryTechnical]

	tests := []struct {
		name   string
		ticket Ticket
		want   float64
	}{
		{
			name:   "no signals",
			ticket: Ticket{Channel: ChannelPhone, Severity: SeverityLow, Summary: "please call me back about my card"},
			want:   0,
		},
		{
			name:   "channel only",
			ticket: Ticket{Channel: ChannelAPI, Severity: SeverityLow, Summary: "something is wrong with my card"},
			want:   0.3,
		},
		{
			name:   "severity only",
			ticket: Ticket{Channel: ChannelPhone, Severity: SeverityCritical, Summary: "something is wrong with my card"},
			want:   0.3,
		},
		{
			name:   "keywords only",
			ticket: Ticket{Channel: ChannelPhone, Severity: SeverityLow, Summary: "timeout and database errors"},
			// 3 of 10 keywords: timeout, database, error
			want: 0.4 * 0.3,
		},
		{
			name:   "all signals",
			ticket: Ticket{Channel: ChannelAPI, Severity: SeverityHigh, Summary: "API timeout errors causing database connection failures"},
			// 5 of 10 keywords: api, timeout, error, database, fail
			want: 0.4*0.5 + 0.3 + 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreTicket(tt.ticket, profile)
			if !almostEqual(got, tt.want) {
				t.Fatalf("ScoreTicket() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreTicketKeywordMatchIsCaseInsensitive(t *testing.T) {
	profile := defaultRuleProfiles[CategoryOperational]
	lower := Ticket{Channel: ChannelChat, Severity: SeverityLow, Summary: "password reset for my account"}
	upper := Ticket{Channel: ChannelChat, Severity: SeverityLow, Summary: "PASSWORD RESET for my ACCOUNT"}

	if got, want := ScoreTicket(upper, profile), ScoreTicket(lower, profile); got != want {
		t.Fatalf("case should not affect keyword matching: %v vs %v", got, want)
	}
}

func TestScoreTicketDeterministic(t *testing.T) {
	ticket := Ticket{Channel: ChannelWeb, Severity: SeverityHigh, Summary: "intermittent API latency and timeout errors"}
	for _, category := range []Category{CategoryTechnical, CategoryOperational} {
		first := ScoreTicket(ticket, defaultRuleProfiles[category])
		second := ScoreTicket(ticket, defaultRuleProfiles[category])
		if first != second {
			t.Fatalf("score for %s not deterministic: %v vs %v", category, first, second)
		}
	}
}

func TestScoreTicketStaysInRange(t *testing.T) {
	summaries := []string{
		"error bug crash timeout exception database api latency outage failure",
		"password reset account balance verification statement dispute limit access transfer",
		"nothing matching here at all",
	}
	for _, channel := range allChannels {
		for _, severity := range allSeverities {
			for _, summary := range summaries {
				ticket := Ticket{Channel: channel, Severity: severity, Summary: summary}
				for category, profile := range defaultRuleProfiles {
					score := ScoreTicket(ticket, profile)
					if score < 0 || score > 1 {
						t.Fatalf("score %v out of range for %s %s %s", score, category, channel, severity)
					}
				}
			}
		}
	}
}

func TestPreferredChannelSetsDisjoint(t *testing.T) {
	claimed := map[Channel]Category{}
	for category, profile := range defaultRuleProfiles {
		for _, channel := range profile.PreferredChannels {
			if other, ok := claimed[channel]; ok && other != category {
				t.Fatalf("channel %s is preferred by both %s and %s", channel, other, category)
			}
			claimed[channel] = category
		}
	}
}

func TestRuleProfilesUseSubstitutedRules(t *testing.T) {
	// The scorer takes the profile as an argument, so custom rule sets work
	// without touching the package-level tables.
	profile := RuleProfile{
		Keywords:            []string{"chargeback"},
		PreferredChannels:   []Channel{ChannelATM},
		PreferredSeverities: []Severity{SeverityLow},
	}
	ticket := Ticket{Channel: ChannelATM, Severity: SeverityLow, Summary: "chargeback request pending"}
	if got := ScoreTicket(ticket, profile); !almostEqual(got, 1.0) {
		t.Fatalf("expected full score with substituted profile, got %v", got)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
