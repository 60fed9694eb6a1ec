package core

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// drawRawTask generates an arbitrary raw task.
func drawRawTask(rt *rapid.T) models.RawTask {
	task := models.RawTask{
		Description:    rapid.String().Draw(rt, "description"),
		Assignee:       rapid.String().Draw(rt, "assignee"),
		Priority:       models.PriorityMedium,
		BaseConfidence: rapid.Float64Range(-2.0, 3.0).Draw(rt, "base_confidence"),
	}
	if rapid.Bool().Draw(rt, "has_deadline") {
		d := "2024-06-01"
		task.Deadline = &d
	}
	return task
}

// Property 1: Final confidence bounds.
// The final confidence stays within [0,1] regardless of the input's base
// confidence sign or magnitude.
func TestProperty_FinalConfidenceBounded(t *testing.T) {
	calc := NewConfidenceCalculator()

	rapid.Check(t, func(rt *rapid.T) {
		metrics := calc.Score(drawRawTask(rt))

		if metrics.FinalConfidence < 0.0 || metrics.FinalConfidence > 1.0 {
			t.Fatalf("final confidence %v outside [0,1]", metrics.FinalConfidence)
		}
		if metrics.BaseConfidence < 0.0 || metrics.BaseConfidence > 1.0 {
			t.Fatalf("clamped base confidence %v outside [0,1]", metrics.BaseConfidence)
		}
	})
}

// Property 2: No-penalty identity.
// When no rule fires, the final confidence equals the (clamped) base.
func TestProperty_NoPenaltyIdentity(t *testing.T) {
	calc := NewConfidenceCalculator()

	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Float64Range(0.0, 1.0).Draw(rt, "base")
		deadline := "2024-06-01"
		task := models.RawTask{
			Description:    "finalize the quarterly report",
			Assignee:       "Sarah",
			Deadline:       &deadline,
			BaseConfidence: base,
		}

		metrics := calc.Score(task)

		if metrics.FinalConfidence != base {
			t.Fatalf("expected final %v to equal base, got %v", base, metrics.FinalConfidence)
		}
		if len(metrics.Adjustments) != 0 {
			t.Fatalf("expected no adjustments, got %v", metrics.Adjustments)
		}
	})
}

// Property 3: Penalty bookkeeping.
// The penalty total matches the sum implied by the adjustment entries, and
// final confidence equals clamp(base - penalties).
func TestProperty_PenaltyBookkeeping(t *testing.T) {
	calc := NewConfidenceCalculator()

	penaltyFor := map[string]float64{
		"No deadline specified (-0.15)":   0.15,
		"Assignee not specified (-0.20)":  0.20,
		"Vague language detected (-0.10)": 0.10,
	}

	rapid.Check(t, func(rt *rapid.T) {
		task := drawRawTask(rt)
		metrics := calc.Score(task)

		var sum float64
		for _, adj := range metrics.Adjustments {
			p, ok := penaltyFor[adj]
			if !ok {
				t.Fatalf("unknown adjustment entry %q", adj)
			}
			sum += p
		}

		if math.Abs(metrics.PenaltyTotal-sum) > 1e-9 {
			t.Fatalf("penalty total %v does not match adjustments %v", metrics.PenaltyTotal, metrics.Adjustments)
		}

		want := metrics.BaseConfidence - metrics.PenaltyTotal
		if want < 0.0 {
			want = 0.0
		}
		if want > 1.0 {
			want = 1.0
		}
		if math.Abs(metrics.FinalConfidence-want) > 1e-9 {
			t.Fatalf("final confidence %v, want clamp(%v - %v) = %v",
				metrics.FinalConfidence, metrics.BaseConfidence, metrics.PenaltyTotal, want)
		}
	})
}

// Property 4: Scoring is deterministic.
func TestProperty_ScoreDeterministic(t *testing.T) {
	calc := NewConfidenceCalculator()

	rapid.Check(t, func(rt *rapid.T) {
		task := drawRawTask(rt)

		first := calc.Score(task)
		second := calc.Score(task)

		if first.FinalConfidence != second.FinalConfidence || first.PenaltyTotal != second.PenaltyTotal {
			t.Fatalf("scoring not deterministic: %v vs %v", first, second)
		}
	})
}
