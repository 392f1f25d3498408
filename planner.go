package main

// Base checklists are ordered; ticket-specific edits below build on them.
var technicalBaseActions = []string{
	"Reproduce the issue in a controlled environment",
	"Collect logs and error traces from the affected systems",
	"Develop and test a fix in staging",
	"Deploy the fix and verify resolution with the customer",
}

var operationalBaseActions = []string{
	"Verify the customer's identity per security policy",
	"Review the account state and recent activity",
	"Walk the customer through the standard procedure",
	"Document the interaction and confirm resolution",
}

const (
	actionEscalate       = "Escalate immediately to the on-call incident team"
	actionIncidentReport = "File an incident report with a root cause summary"
	actionMonitorClosely = "Monitor progress closely until resolved"
	actionCrossPlatform  = "Run cross-platform verification on iOS and Android builds"
)

const (
	minPlannedActions = 3
	maxPlannedActions = 6
)

// PlanActions builds the ordered remediation checklist for a decision.
// Edits apply in a fixed order: severity first (critical prepends escalation
// and appends an incident report, high appends close monitoring), then the
// mobile cross-platform insert at position 4, then truncation to 6 entries.
// Callers are expected to validate the returned length.
func PlanActions(decision Category, ticket Ticket) []string {
	base := operationalBaseActions
	if decision == CategoryTechnical {
		base = technicalBaseActions
	}
	actions := make([]string, len(base), len(base)+3)
	copy(actions, base)

	switch ticket.Severity {
	case SeverityCritical:
		actions = append([]string{actionEscalate}, actions...)
		actions = append(actions, actionIncidentReport)
	case SeverityHigh:
		actions = append(actions, actionMonitorClosely)
	}

	if decision == CategoryTechnical && ticket.Channel == ChannelMobileApp {
		idx := 3
		if idx > len(actions) {
			idx = len(actions)
		}
		actions = append(actions, "")
		copy(actions[idx+1:], actions[idx:])
		actions[idx] = actionCrossPlatform
	}

	if len(actions) > maxPlannedActions {
		actions = actions[:maxPlannedActions]
	}
	return actions
}
