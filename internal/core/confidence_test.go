package core

import (
	"math"
	"testing"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func strPtr(s string) *string {
	return &s
}

// completeTask returns a task that triggers no penalty rules.
func completeTask(confidence float64) models.RawTask {
	return models.RawTask{
		Description:    "finalize the marketing analysis report",
		Assignee:       "Sarah",
		Deadline:       strPtr("2024-03-20"),
		Priority:       models.PriorityHigh,
		BaseConfidence: confidence,
	}
}

func TestScore_NoPenalties(t *testing.T) {
	calc := NewConfidenceCalculator()

	metrics := calc.Score(completeTask(0.95))

	if !almostEqual(metrics.FinalConfidence, 0.95) {
		t.Errorf("expected final confidence 0.95, got %v", metrics.FinalConfidence)
	}
	if !almostEqual(metrics.PenaltyTotal, 0.0) {
		t.Errorf("expected no penalties, got %v", metrics.PenaltyTotal)
	}
	if len(metrics.Adjustments) != 0 {
		t.Errorf("expected no adjustments, got %v", metrics.Adjustments)
	}
	if metrics.NeedsReview {
		t.Error("expected needs_review false at 0.95")
	}
}

func TestScore_MissingDeadline(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := completeTask(0.9)
	task.Deadline = nil

	metrics := calc.Score(task)

	if !almostEqual(metrics.PenaltyTotal, 0.15) {
		t.Errorf("expected penalty 0.15, got %v", metrics.PenaltyTotal)
	}
	if len(metrics.Adjustments) != 1 || metrics.Adjustments[0] != "No deadline specified (-0.15)" {
		t.Errorf("unexpected adjustments: %v", metrics.Adjustments)
	}
}

func TestScore_UnspecifiedAssignee(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := completeTask(0.9)
	task.Assignee = models.AssigneeUnspecified

	metrics := calc.Score(task)

	if !almostEqual(metrics.PenaltyTotal, 0.20) {
		t.Errorf("expected penalty 0.20, got %v", metrics.PenaltyTotal)
	}
	if len(metrics.Adjustments) != 1 || metrics.Adjustments[0] != "Assignee not specified (-0.20)" {
		t.Errorf("unexpected adjustments: %v", metrics.Adjustments)
	}
}

func TestScore_AssigneeMatchIsExact(t *testing.T) {
	calc := NewConfidenceCalculator()

	// Case-sensitive exact match only: these must not trigger the penalty.
	for _, assignee := range []string{"Unspecified", "UNSPECIFIED", "unspecified "} {
		task := completeTask(0.9)
		task.Assignee = assignee

		metrics := calc.Score(task)

		if metrics.PenaltyTotal != 0 {
			t.Errorf("assignee %q: expected no penalty, got %v", assignee, metrics.PenaltyTotal)
		}
	}
}

func TestScore_VagueLanguage(t *testing.T) {
	calc := NewConfidenceCalculator()

	tests := []struct {
		name        string
		description string
		wantPenalty bool
	}{
		{"maybe", "maybe schedule a meeting", true},
		{"might", "we might want to revisit this", true},
		{"possibly", "possibly update the roadmap", true},
		{"consider", "consider migrating the database", true},
		{"think about", "think about the Q2 plan", true},
		{"uppercase hedge", "MAYBE schedule a meeting", true},
		{"substring over-match", "allocate considerable budget", true},
		{"clear", "finalize the report", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := completeTask(0.9)
			task.Description = tt.description

			metrics := calc.Score(task)

			if tt.wantPenalty && !almostEqual(metrics.PenaltyTotal, 0.10) {
				t.Errorf("expected penalty 0.10, got %v", metrics.PenaltyTotal)
			}
			if !tt.wantPenalty && metrics.PenaltyTotal != 0 {
				t.Errorf("expected no penalty, got %v", metrics.PenaltyTotal)
			}
		})
	}
}

func TestScore_VaguePenaltyAppliedOnce(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := completeTask(0.9)
	task.Description = "maybe possibly consider a meeting we might think about"

	metrics := calc.Score(task)

	if !almostEqual(metrics.PenaltyTotal, 0.10) {
		t.Errorf("expected single 0.10 penalty for multiple hedge words, got %v", metrics.PenaltyTotal)
	}
	if len(metrics.Adjustments) != 1 {
		t.Errorf("expected one adjustment, got %v", metrics.Adjustments)
	}
}

func TestScore_PenaltyAdditivityAndOrder(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := models.RawTask{
		Description:    "finalize report",
		Assignee:       models.AssigneeUnspecified,
		Deadline:       nil,
		Priority:       models.PriorityHigh,
		BaseConfidence: 0.95,
	}

	metrics := calc.Score(task)

	if !almostEqual(metrics.PenaltyTotal, 0.35) {
		t.Errorf("expected penalty total 0.35, got %v", metrics.PenaltyTotal)
	}
	if !almostEqual(metrics.FinalConfidence, 0.60) {
		t.Errorf("expected final confidence 0.60, got %v", metrics.FinalConfidence)
	}
	// Deadline rule fires before the assignee rule.
	want := []string{"No deadline specified (-0.15)", "Assignee not specified (-0.20)"}
	if len(metrics.Adjustments) != 2 || metrics.Adjustments[0] != want[0] || metrics.Adjustments[1] != want[1] {
		t.Errorf("expected adjustments %v, got %v", want, metrics.Adjustments)
	}
	if !metrics.NeedsReview {
		t.Error("expected needs_review true at 0.60")
	}
}

func TestScore_VagueLanguageScenario(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := models.RawTask{
		Description:    "maybe schedule a meeting",
		Assignee:       "Mike",
		Deadline:       strPtr("2024-04-05"),
		BaseConfidence: 0.6,
	}

	metrics := calc.Score(task)

	if !almostEqual(metrics.PenaltyTotal, 0.10) {
		t.Errorf("expected penalty 0.10, got %v", metrics.PenaltyTotal)
	}
	if !almostEqual(metrics.FinalConfidence, 0.50) {
		t.Errorf("expected final confidence 0.50, got %v", metrics.FinalConfidence)
	}
}

func TestScore_ClampsOutOfRangeBase(t *testing.T) {
	calc := NewConfidenceCalculator()

	tests := []struct {
		name string
		base float64
		want float64
	}{
		{"negative base", -0.5, 0.0},
		{"base above one", 1.7, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := calc.Score(completeTask(tt.base))

			if !almostEqual(metrics.BaseConfidence, tt.want) {
				t.Errorf("expected base clamped to %v, got %v", tt.want, metrics.BaseConfidence)
			}
			if !almostEqual(metrics.FinalConfidence, tt.want) {
				t.Errorf("expected final %v, got %v", tt.want, metrics.FinalConfidence)
			}
		})
	}
}

func TestScore_FloorsAtZero(t *testing.T) {
	calc := NewConfidenceCalculator()
	task := models.RawTask{
		Description:    "maybe do something",
		Assignee:       models.AssigneeUnspecified,
		BaseConfidence: 0.2,
	}

	metrics := calc.Score(task)

	// 0.2 - 0.45 floors at 0.
	if metrics.FinalConfidence != 0.0 {
		t.Errorf("expected final confidence 0.0, got %v", metrics.FinalConfidence)
	}
	if !almostEqual(metrics.PenaltyTotal, 0.45) {
		t.Errorf("expected penalty total 0.45, got %v", metrics.PenaltyTotal)
	}
}
