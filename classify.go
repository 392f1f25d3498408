package main

import (
	"context"
	"fmt"
	"log"
	"math"
)

const ruleEngineVersion = "rule-engine-v1"

const (
	externalWeight  = 0.6
	ruleWeight      = 0.4
	confidenceFloor = 0.5
)

// Classifier is the decision combiner: it runs the rule scorer for both
// categories, asks the assessor for a best-effort external judgment, fuses
// the two, and assembles the final result.
type Classifier struct {
	rules    map[Category]RuleProfile
	assessor Assessor
	model    string
}

func NewClassifier(cfg Config, assessor Assessor) *Classifier {
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Classifier{
		rules:    defaultRuleProfiles,
		assessor: assessor,
		model:    model,
	}
}

func (c *Classifier) Classify(ctx context.Context, ticket Ticket) (ClassificationResult, LLMUsage, error) {
	log.Printf("classify start channel=%s severity=%s", ticket.Channel, ticket.Severity)

	scores := RuleScores{
		Technical:   ScoreTicket(ticket, c.rules[CategoryTechnical]),
		Operational: ScoreTicket(ticket, c.rules[CategoryOperational]),
	}
	log.Printf("classify rule scores technical=%.2f operational=%.2f", scores.Technical, scores.Operational)

	assessment, usage := c.assessor.Assess(ctx, ticket)

	decision, confidence, reasoning := fuseScores(scores, assessment)

	actions := PlanActions(decision, ticket)
	if len(actions) < minPlannedActions || len(actions) > maxPlannedActions {
		err := fmt.Errorf("classification failed: planner returned %d actions for %s", len(actions), decision)
		log.Printf("classify error: %v", err)
		return ClassificationResult{}, usage, err
	}

	modelVersion := ruleEngineVersion
	if assessment != nil {
		modelVersion = c.model
	}

	result := ClassificationResult{
		Decision:    decision,
		Reasoning:   reasoning,
		Confidence:  confidence,
		NextActions: actions,
		Metadata: ResultMetadata{
			ModelVersion:           modelVersion,
			RuleScores:             scores,
			ExternalAssessmentUsed: assessment != nil,
		},
	}
	log.Printf("classify done decision=%s confidence=%.2f assessment_used=%t",
		decision, confidence, assessment != nil)
	return result, usage, nil
}

// fuseScores combines the rule scores with an optional external assessment
// into the winning category, the floored confidence, and the reasoning text.
// Technical wins only on a strictly greater score, so an exact tie resolves
// to operational_workflow; tests pin that behavior.
func fuseScores(scores RuleScores, assessment *ExternalAssessment) (Category, float64, string) {
	if assessment == nil {
		if scores.Technical > scores.Operational {
			reasoning := fmt.Sprintf(
				"Rule-based classification only (no external assessment): technical signals outweigh operational signals (%.2f vs %.2f).",
				scores.Technical, scores.Operational)
			return CategoryTechnical, flooredConfidence(scores.Technical), reasoning
		}
		reasoning := fmt.Sprintf(
			"Rule-based classification only (no external assessment): operational signals outweigh technical signals (%.2f vs %.2f).",
			scores.Operational, scores.Technical)
		return CategoryOperational, flooredConfidence(scores.Operational), reasoning
	}

	externalTechnical := assessment.Confidence
	if assessment.Recommended != CategoryTechnical {
		externalTechnical = 1 - assessment.Confidence
	}
	combinedTechnical := externalWeight*externalTechnical + ruleWeight*scores.Technical
	combinedOperational := externalWeight*(1-externalTechnical) + ruleWeight*scores.Operational

	if combinedTechnical > combinedOperational {
		reasoning := "Technical issue identified: " + assessment.Rationale
		return CategoryTechnical, flooredConfidence(combinedTechnical), reasoning
	}
	reasoning := "Operational issue identified: " + assessment.Rationale
	return CategoryOperational, flooredConfidence(combinedOperational), reasoning
}

// flooredConfidence applies the 0.5 floor and rounds to two decimals.
func flooredConfidence(score float64) float64 {
	return math.Round(math.Max(score, confidenceFloor)*100) / 100
}
