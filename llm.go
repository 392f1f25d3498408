package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const assessMaxTokens = 1024

type LLMUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *LLMUsage) Add(other LLMUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
}

// Assessor produces a best-effort external assessment for a ticket. A nil
// assessment means none is available; that is an expected outcome, not an
// error, and implementations must never propagate a failure to the caller.
type Assessor interface {
	Assess(ctx context.Context, ticket Ticket) (*ExternalAssessment, LLMUsage)
}

// NewAssessor returns the Anthropic-backed assessor, or a disabled one when
// no API key is configured.
func NewAssessor(cfg Config) Assessor {
	if cfg.AnthropicAPIKey == "" {
		log.Println("No anthropic_api_key configured, external assessment disabled")
		return disabledAssessor{}
	}
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicAssessor{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:   model,
		timeout: time.Duration(cfg.AssessTimeoutSeconds) * time.Second,
	}
}

type disabledAssessor struct{}

func (disabledAssessor) Assess(context.Context, Ticket) (*ExternalAssessment, LLMUsage) {
	return nil, LLMUsage{}
}

type anthropicAssessor struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

func (a *anthropicAssessor) Assess(ctx context.Context, ticket Ticket) (*ExternalAssessment, LLMUsage) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	systemPrompt, userPrompt := buildAssessmentPrompts(ticket)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   assessMaxTokens,
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("assessment anthropic error (non-fatal): %v", err)
		return nil, LLMUsage{}
	}
	usage := LLMUsage{
		InputTokens:              message.Usage.InputTokens,
		OutputTokens:             message.Usage.OutputTokens,
		CacheCreationInputTokens: message.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     message.Usage.CacheReadInputTokens,
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		log.Printf("assessment skipped (non-fatal): no text content in response")
		return nil, usage
	}

	assessment, parseErr := parseAssessment(responseText)
	if parseErr != nil {
		log.Printf("assessment parse error (non-fatal): %v", parseErr)
		return nil, usage
	}

	log.Printf("assessment ok model=%s recommendation=%s confidence=%.2f tokens_in=%d tokens_out=%d",
		a.model, assessment.Recommended, assessment.Confidence, usage.InputTokens, usage.OutputTokens)
	return assessment, usage
}

func buildAssessmentPrompts(ticket Ticket) (string, string) {
	systemPrompt := `You assess banking support tickets and recommend one remediation path.
Choose exactly one recommendation from:
- technical_remediation: resolving the ticket requires a code-level or infrastructure fix
- operational_workflow: resolving the ticket follows a standard service procedure

Also:
- set confidence between 0 and 1
- explain your reasoning in one or two sentences
- list any technical or operational indicators you noticed in the summary

Respond with JSON only (no markdown):
{"recommendation": "technical_remediation", "confidence": 0.85, "reasoning": "...", "technical_indicators": ["..."], "operational_indicators": ["..."]}`

	userPrompt := fmt.Sprintf("Assess this ticket:\n\nChannel: %s\nSeverity: %s\nSummary: %s\n",
		ticket.Channel, ticket.Severity, strings.TrimSpace(ticket.Summary))
	return systemPrompt, userPrompt
}

type assessmentPayload struct {
	Recommendation        string   `json:"recommendation"`
	Confidence            *float64 `json:"confidence"`
	Reasoning             string   `json:"reasoning"`
	TechnicalIndicators   []string `json:"technical_indicators"`
	OperationalIndicators []string `json:"operational_indicators"`
}

// parseAssessment validates the service payload. Anything short of a fully
// valid assessment is an error so the caller can collapse it to absent.
func parseAssessment(responseText string) (*ExternalAssessment, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		return nil, fmt.Errorf("parsing assessment response: %w", err)
	}

	recommended, ok := parseCategory(payload.Recommendation)
	if !ok {
		return nil, fmt.Errorf("assessment recommendation %q is not a known category", payload.Recommendation)
	}
	if payload.Confidence == nil {
		return nil, fmt.Errorf("assessment response is missing confidence")
	}
	if strings.TrimSpace(payload.Reasoning) == "" {
		return nil, fmt.Errorf("assessment response is missing reasoning")
	}

	confidence := *payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &ExternalAssessment{
		Recommended:           recommended,
		Confidence:            confidence,
		Rationale:             strings.TrimSpace(payload.Reasoning),
		TechnicalIndicators:   payload.TechnicalIndicators,
		OperationalIndicators: payload.OperationalIndicators,
	}, nil
}

func parseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryTechnical:
		return CategoryTechnical, true
	case CategoryOperational:
		return CategoryOperational, true
	}
	return "", false
}
