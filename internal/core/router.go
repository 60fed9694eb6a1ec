package core

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// Default routing thresholds.
const (
	DefaultAutoApproveThreshold  = 0.7
	DefaultHighPriorityThreshold = 0.5
)

// RouterOption customizes a ReviewRouter at construction.
type RouterOption func(*ReviewRouter)

// WithClock overrides the clock used to stamp RoutedAt. Tests use this to
// pin timestamps.
func WithClock(now func() time.Time) RouterOption {
	return func(r *ReviewRouter) { r.now = now }
}

// ReviewRouter classifies scored tasks into three review lanes and
// accumulates per-lane collections. A router instance is scoped to one
// batch and is not safe for concurrent use.
type ReviewRouter struct {
	autoApproveThreshold  float64
	highPriorityThreshold float64
	now                   func() time.Time

	autoApproved       []models.RoutedTask
	standardReview     []models.RoutedTask
	highPriorityReview []models.RoutedTask
}

// NewReviewRouter creates a router with the given thresholds. Both must lie
// in [0,1] and highPriority must not exceed autoApprove; violations are a
// configuration error reported at construction, never at routing time.
func NewReviewRouter(autoApprove, highPriority float64, opts ...RouterOption) (*ReviewRouter, error) {
	if autoApprove < 0.0 || autoApprove > 1.0 {
		return nil, fmt.Errorf("auto-approve threshold %v outside [0,1]", autoApprove)
	}
	if highPriority < 0.0 || highPriority > 1.0 {
		return nil, fmt.Errorf("high-priority threshold %v outside [0,1]", highPriority)
	}
	if highPriority > autoApprove {
		return nil, fmt.Errorf("high-priority threshold %v exceeds auto-approve threshold %v", highPriority, autoApprove)
	}

	r := &ReviewRouter{
		autoApproveThreshold:  autoApprove,
		highPriorityThreshold: highPriority,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RouteTask buckets the task by final confidence, appends it to the
// matching lane, and returns the routed task. Band lower bounds are
// inclusive: a task exactly at a threshold falls into the higher-trust
// band.
func (r *ReviewRouter) RouteTask(task models.RawTask, metrics models.ConfidenceMetrics) models.RoutedTask {
	routed := models.RoutedTask{
		Task:     task,
		Metrics:  metrics,
		RoutedAt: r.now(),
	}

	switch {
	case metrics.FinalConfidence >= r.autoApproveThreshold:
		routed.Status = models.StatusAutoApproved
		routed.Lane = models.LaneAutoApproved
		r.autoApproved = append(r.autoApproved, routed)
	case metrics.FinalConfidence >= r.highPriorityThreshold:
		routed.Status = models.StatusNeedsReview
		routed.Lane = models.LaneStandardReview
		r.standardReview = append(r.standardReview, routed)
	default:
		routed.Status = models.StatusNeedsUrgentReview
		routed.Lane = models.LaneHighPriorityReview
		r.highPriorityReview = append(r.highPriorityReview, routed)
	}

	return routed
}

// Summary reports lane counts. Pure read; TotalTasks equals the number of
// RouteTask calls so far.
func (r *ReviewRouter) Summary() models.QueueSummary {
	return models.QueueSummary{
		TotalTasks:         len(r.autoApproved) + len(r.standardReview) + len(r.highPriorityReview),
		AutoApproved:       len(r.autoApproved),
		StandardReview:     len(r.standardReview),
		HighPriorityReview: len(r.highPriorityReview),
	}
}

// ReviewTasks returns the human worklist: every high-priority item first,
// then every standard item, each lane in insertion order. Auto-approved
// tasks are never included.
func (r *ReviewRouter) ReviewTasks() []models.RoutedTask {
	tasks := make([]models.RoutedTask, 0, len(r.highPriorityReview)+len(r.standardReview))
	tasks = append(tasks, r.highPriorityReview...)
	tasks = append(tasks, r.standardReview...)
	return tasks
}

// AutoApproved returns the auto-approved lane in insertion order.
func (r *ReviewRouter) AutoApproved() []models.RoutedTask {
	tasks := make([]models.RoutedTask, len(r.autoApproved))
	copy(tasks, r.autoApproved)
	return tasks
}
