package models

import "time"

// Priority represents the urgency level the extractor assigned to a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ReviewStatus represents the trust decision made for a routed task.
type ReviewStatus string

const (
	StatusAutoApproved      ReviewStatus = "auto_approved"
	StatusNeedsReview       ReviewStatus = "needs_review"
	StatusNeedsUrgentReview ReviewStatus = "needs_urgent_review"
)

// Lane identifies the review queue a task was routed into. Lanes map 1:1
// to review statuses.
type Lane string

const (
	LaneAutoApproved       Lane = "auto_approved"
	LaneStandardReview     Lane = "standard_review"
	LaneHighPriorityReview Lane = "high_priority_review"
)

// AssigneeUnspecified is the sentinel the extraction service emits when an
// email names no owner for a task.
const AssigneeUnspecified = "unspecified"

// RawTask is a single action item as reported by the extraction service,
// before any confidence scoring. Deadline is nil when the email gave none.
type RawTask struct {
	Description    string   `json:"task_description" yaml:"task_description"`
	Assignee       string   `json:"assignee" yaml:"assignee"`
	Deadline       *string  `json:"deadline" yaml:"deadline"`
	Priority       Priority `json:"priority" yaml:"priority"`
	BaseConfidence float64  `json:"confidence_score" yaml:"confidence_score"`
	Reasoning      string   `json:"reasoning" yaml:"reasoning"`
}

// ConfidenceMetrics holds the outcome of rule-based confidence adjustment
// for one task. Immutable once computed.
type ConfidenceMetrics struct {
	BaseConfidence  float64  `json:"base_confidence" yaml:"base_confidence"`
	PenaltyTotal    float64  `json:"penalty_total" yaml:"penalty_total"`
	FinalConfidence float64  `json:"final_confidence" yaml:"final_confidence"`
	Adjustments     []string `json:"adjustments" yaml:"adjustments"`
	NeedsReview     bool     `json:"needs_review" yaml:"needs_review"`
}

// RoutedTask is a RawTask combined with its confidence metrics and the
// routing decision.
type RoutedTask struct {
	Task     RawTask           `json:"task" yaml:"task"`
	Metrics  ConfidenceMetrics `json:"confidence_metrics" yaml:"confidence_metrics"`
	Status   ReviewStatus      `json:"review_status" yaml:"review_status"`
	Lane     Lane              `json:"queue" yaml:"queue"`
	RoutedAt time.Time         `json:"routed_at" yaml:"routed_at"`
}
