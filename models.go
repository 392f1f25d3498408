package main

import "time"

// Channel is the contact surface a support ticket arrived on.
type Channel string

const (
	ChannelWeb       Channel = "web"
	ChannelMobileApp Channel = "mobile_app"
	ChannelPhone     Channel = "phone"
	ChannelEmail     Channel = "email"
	ChannelChat      Channel = "chat"
	ChannelAPI       Channel = "api"
	ChannelBranch    Channel = "branch"
	ChannelATM       Channel = "atm"
)

// Severity of a ticket, ordered low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Category is one of the two mutually exclusive remediation paths.
type Category string

const (
	CategoryTechnical   Category = "technical_remediation"
	CategoryOperational Category = "operational_workflow"
)

var allChannels = []Channel{
	ChannelWeb, ChannelMobileApp, ChannelPhone, ChannelEmail,
	ChannelChat, ChannelAPI, ChannelBranch, ChannelATM,
}

var allSeverities = []Severity{
	SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical,
}

func ValidChannel(c Channel) bool {
	for _, known := range allChannels {
		if c == known {
			return true
		}
	}
	return false
}

func ValidSeverity(s Severity) bool {
	for _, known := range allSeverities {
		if s == known {
			return true
		}
	}
	return false
}

// Ticket is a validated, normalized support request. The transport layer
// owns validation; everything below it assumes the fields are canonical.
type Ticket struct {
	TicketID   string
	CustomerID string
	Channel    Channel
	Severity   Severity
	Summary    string
	Tags       []string
	Priority   string
	ReceivedAt time.Time
}

// ExternalAssessment is the structured judgment returned by the external
// text-understanding service. It is either fully populated or not produced
// at all; the adapter never hands back a partial one.
type ExternalAssessment struct {
	Recommended           Category
	Confidence            float64
	Rationale             string
	TechnicalIndicators   []string
	OperationalIndicators []string
}

type RuleScores struct {
	Technical   float64 `json:"technical"`
	Operational float64 `json:"operational"`
}

type ResultMetadata struct {
	ModelVersion           string     `json:"model_version"`
	RuleScores             RuleScores `json:"rule_scores"`
	ExternalAssessmentUsed bool       `json:"external_assessment_used"`
}

// ClassificationResult is the final decision handed back to the transport.
type ClassificationResult struct {
	Decision    Category       `json:"decision"`
	Reasoning   string         `json:"reasoning"`
	Confidence  float64        `json:"confidence"`
	NextActions []string       `json:"next_actions"`
	Metadata    ResultMetadata `json:"metadata"`
}
