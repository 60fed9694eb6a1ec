// Package core contains the business logic for mail-triage: rule-based
// confidence adjustment, threshold routing into review lanes, batch
// pipeline coordination, and configuration.
package core

import (
	"strings"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// Penalty amounts applied by the confidence rules.
const (
	penaltyMissingDeadline  = 0.15
	penaltyNoAssignee       = 0.20
	penaltyVagueDescription = 0.10
)

// reviewCutoff is the informational needs-review mark; the router makes the
// actual lane decision.
const reviewCutoff = 0.7

// hedgeWords trigger the vague-language penalty when any of them occurs as
// a substring of the lower-cased description. Substring matching is
// intentional and kept for compatibility, even though it over-matches
// words like "considerable".
var hedgeWords = []string{"maybe", "might", "possibly", "consider", "think about"}

// ConfidenceCalculator derives final confidence metrics from a raw task.
type ConfidenceCalculator interface {
	Score(task models.RawTask) models.ConfidenceMetrics
}

// ruleCalculator implements ConfidenceCalculator with a fixed ordered set
// of deduction rules applied to the extractor's self-reported confidence.
type ruleCalculator struct{}

// NewConfidenceCalculator creates a ConfidenceCalculator applying the
// standard penalty rules.
func NewConfidenceCalculator() ConfidenceCalculator {
	return &ruleCalculator{}
}

// Score applies every penalty rule to the task and returns the resulting
// metrics. It is a pure function: no I/O, no randomness, no mutation of
// the input. A base confidence outside [0,1] is clamped rather than
// rejected.
func (c *ruleCalculator) Score(task models.RawTask) models.ConfidenceMetrics {
	base := clamp01(task.BaseConfidence)

	var penalties float64
	var adjustments []string

	if task.Deadline == nil {
		penalties += penaltyMissingDeadline
		adjustments = append(adjustments, "No deadline specified (-0.15)")
	}

	if task.Assignee == models.AssigneeUnspecified {
		penalties += penaltyNoAssignee
		adjustments = append(adjustments, "Assignee not specified (-0.20)")
	}

	description := strings.ToLower(task.Description)
	for _, word := range hedgeWords {
		if strings.Contains(description, word) {
			penalties += penaltyVagueDescription
			adjustments = append(adjustments, "Vague language detected (-0.10)")
			break
		}
	}

	final := clamp01(base - penalties)

	return models.ConfidenceMetrics{
		BaseConfidence:  base,
		PenaltyTotal:    penalties,
		FinalConfidence: final,
		Adjustments:     adjustments,
		NeedsReview:     final < reviewCutoff,
	}
}

// clamp01 bounds v into [0,1].
func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
