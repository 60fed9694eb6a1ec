package core

import (
	"testing"
	"time"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

func testClock() func() time.Time {
	fixed := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func metricsWith(final float64) models.ConfidenceMetrics {
	return models.ConfidenceMetrics{
		BaseConfidence:  final,
		FinalConfidence: final,
	}
}

func TestNewReviewRouter_ValidatesThresholds(t *testing.T) {
	tests := []struct {
		name         string
		autoApprove  float64
		highPriority float64
		wantErr      bool
	}{
		{"defaults", 0.7, 0.5, false},
		{"equal thresholds", 0.6, 0.6, false},
		{"bounds", 1.0, 0.0, false},
		{"auto-approve above one", 1.1, 0.5, true},
		{"auto-approve negative", -0.1, 0.5, true},
		{"high-priority above one", 0.7, 1.2, true},
		{"high-priority negative", 0.7, -0.2, true},
		{"inverted ordering", 0.5, 0.7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReviewRouter(tt.autoApprove, tt.highPriority)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRouteTask_Lanes(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantLane   models.Lane
		wantStatus models.ReviewStatus
	}{
		{"high confidence", 0.95, models.LaneAutoApproved, models.StatusAutoApproved},
		{"at auto-approve threshold", 0.7, models.LaneAutoApproved, models.StatusAutoApproved},
		{"just below auto-approve", 0.69, models.LaneStandardReview, models.StatusNeedsReview},
		{"at high-priority threshold", 0.5, models.LaneStandardReview, models.StatusNeedsReview},
		{"just below high-priority", 0.49, models.LaneHighPriorityReview, models.StatusNeedsUrgentReview},
		{"zero confidence", 0.0, models.LaneHighPriorityReview, models.StatusNeedsUrgentReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, err := NewReviewRouter(DefaultAutoApproveThreshold, DefaultHighPriorityThreshold, WithClock(testClock()))
			if err != nil {
				t.Fatalf("creating router: %v", err)
			}

			routed := router.RouteTask(models.RawTask{Description: "task"}, metricsWith(tt.confidence))

			if routed.Lane != tt.wantLane {
				t.Errorf("expected lane %s, got %s", tt.wantLane, routed.Lane)
			}
			if routed.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, routed.Status)
			}
			if routed.RoutedAt.IsZero() {
				t.Error("expected routed_at to be stamped")
			}
		})
	}
}

func TestSummary_CountsAndIdempotence(t *testing.T) {
	router, err := NewReviewRouter(0.7, 0.5)
	if err != nil {
		t.Fatalf("creating router: %v", err)
	}

	for _, c := range []float64{0.9, 0.8, 0.6, 0.3} {
		router.RouteTask(models.RawTask{}, metricsWith(c))
	}

	summary := router.Summary()

	if summary.TotalTasks != 4 {
		t.Errorf("expected total 4, got %d", summary.TotalTasks)
	}
	if summary.AutoApproved != 2 || summary.StandardReview != 1 || summary.HighPriorityReview != 1 {
		t.Errorf("unexpected lane counts: %+v", summary)
	}

	// A second read without routing in between returns identical results.
	if again := router.Summary(); again != summary {
		t.Errorf("summary not idempotent: %+v vs %+v", summary, again)
	}
}

func TestReviewTasks_OrderAndExclusion(t *testing.T) {
	router, err := NewReviewRouter(0.7, 0.5)
	if err != nil {
		t.Fatalf("creating router: %v", err)
	}

	// Interleave lanes to verify the worklist is urgent-first but keeps
	// each lane's insertion order.
	router.RouteTask(models.RawTask{Description: "standard-1"}, metricsWith(0.6))
	router.RouteTask(models.RawTask{Description: "approved-1"}, metricsWith(0.9))
	router.RouteTask(models.RawTask{Description: "urgent-1"}, metricsWith(0.2))
	router.RouteTask(models.RawTask{Description: "standard-2"}, metricsWith(0.55))
	router.RouteTask(models.RawTask{Description: "urgent-2"}, metricsWith(0.1))

	review := router.ReviewTasks()

	want := []string{"urgent-1", "urgent-2", "standard-1", "standard-2"}
	if len(review) != len(want) {
		t.Fatalf("expected %d review tasks, got %d", len(want), len(review))
	}
	for i, desc := range want {
		if review[i].Task.Description != desc {
			t.Errorf("position %d: expected %s, got %s", i, desc, review[i].Task.Description)
		}
	}

	for _, task := range review {
		if task.Lane == models.LaneAutoApproved {
			t.Errorf("auto-approved task %q in review worklist", task.Task.Description)
		}
	}

	approved := router.AutoApproved()
	if len(approved) != 1 || approved[0].Task.Description != "approved-1" {
		t.Errorf("unexpected auto-approved lane: %+v", approved)
	}
}
