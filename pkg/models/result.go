package models

// QueueSummary reports per-lane counts for one processed batch. TotalTasks
// always equals the sum of the three lane counts.
type QueueSummary struct {
	TotalTasks         int `json:"total_tasks" yaml:"total_tasks"`
	AutoApproved       int `json:"auto_approved" yaml:"auto_approved"`
	StandardReview     int `json:"standard_review" yaml:"standard_review"`
	HighPriorityReview int `json:"high_priority_review" yaml:"high_priority_review"`
}

// BatchResult is the outcome of processing one email. A batch either fully
// succeeds (every extracted task appears exactly once in ProcessedTasks) or
// fully fails (Success false, Error set, no tasks routed).
type BatchResult struct {
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`

	// ProcessedTasks preserves extraction input order. The lane slices
	// below are partitioned views in routing order.
	ProcessedTasks    []RoutedTask `json:"processed_tasks" yaml:"processed_tasks"`
	AutoApprovedTasks []RoutedTask `json:"auto_approved_tasks" yaml:"auto_approved_tasks"`
	ReviewTasks       []RoutedTask `json:"review_tasks" yaml:"review_tasks"`

	QueueSummary QueueSummary `json:"queue_summary" yaml:"queue_summary"`
}
