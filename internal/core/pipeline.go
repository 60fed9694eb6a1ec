package core

import (
	"context"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// Extractor is the subset of the extraction service that the pipeline
// needs. Defining it here keeps core independent of the extraction package.
type Extractor interface {
	Extract(ctx context.Context, emailContent, sender string) (*models.ExtractionResult, error)
}

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Pipeline coordinates confidence scoring and review routing over one
// batch of extracted tasks.
type Pipeline interface {
	// Process scores and routes every task of an already-materialized
	// extraction result. It never partially processes a batch: an
	// extraction error yields a failure result with no tasks routed.
	Process(extraction *models.ExtractionResult) *models.BatchResult

	// ProcessEmail runs the extraction service on raw email content and
	// feeds the result through Process.
	ProcessEmail(ctx context.Context, emailContent, sender string) *models.BatchResult
}

// pipeline implements Pipeline. Router state is created per Process call so
// lane collections can never leak across batches.
type pipeline struct {
	calculator  ConfidenceCalculator
	extractor   Extractor
	autoApprove float64
	highPri     float64
	routerOpts  []RouterOption
	eventLogger EventLogger
}

// NewPipeline creates a Pipeline routing with the given thresholds.
// extractor is only needed for ProcessEmail and may be nil when callers
// supply extraction results themselves; eventLogger may be nil.
func NewPipeline(calculator ConfidenceCalculator, extractor Extractor, autoApprove, highPriority float64, eventLogger EventLogger, routerOpts ...RouterOption) (Pipeline, error) {
	// Validate thresholds once up front so Process cannot fail per-batch.
	if _, err := NewReviewRouter(autoApprove, highPriority); err != nil {
		return nil, err
	}
	return &pipeline{
		calculator:  calculator,
		extractor:   extractor,
		autoApprove: autoApprove,
		highPri:     highPriority,
		routerOpts:  routerOpts,
		eventLogger: eventLogger,
	}, nil
}

// Process scores and routes each task in input order, preserving that
// order in ProcessedTasks while the lane views keep routing order.
func (p *pipeline) Process(extraction *models.ExtractionResult) *models.BatchResult {
	if extraction == nil {
		return p.failure("no extraction result")
	}
	if extraction.Err {
		return p.failure(extraction.ErrorMessage())
	}

	// Thresholds were validated at construction.
	router, _ := NewReviewRouter(p.autoApprove, p.highPri, p.routerOpts...)

	processed := make([]models.RoutedTask, 0, len(extraction.Tasks))
	for _, task := range extraction.Tasks {
		metrics := p.calculator.Score(task)
		routed := router.RouteTask(task, metrics)
		processed = append(processed, routed)
		p.logEvent("task.routed", map[string]any{
			"queue":            string(routed.Lane),
			"review_status":    string(routed.Status),
			"final_confidence": routed.Metrics.FinalConfidence,
		})
	}

	summary := router.Summary()
	p.logEvent("email.processed", map[string]any{
		"total_tasks":          summary.TotalTasks,
		"auto_approved":        summary.AutoApproved,
		"standard_review":      summary.StandardReview,
		"high_priority_review": summary.HighPriorityReview,
	})

	return &models.BatchResult{
		Success:           true,
		ProcessedTasks:    processed,
		AutoApprovedTasks: router.AutoApproved(),
		ReviewTasks:       router.ReviewTasks(),
		QueueSummary:      summary,
	}
}

// ProcessEmail extracts tasks from the email content, then processes the
// batch. Transport errors from the extractor surface the same way as an
// extraction-service error envelope.
func (p *pipeline) ProcessEmail(ctx context.Context, emailContent, sender string) *models.BatchResult {
	if p.extractor == nil {
		return p.failure("no extractor configured")
	}

	extraction, err := p.extractor.Extract(ctx, emailContent, sender)
	if err != nil {
		return p.failure(err.Error())
	}
	return p.Process(extraction)
}

// failure builds the all-or-nothing failure result.
func (p *pipeline) failure(msg string) *models.BatchResult {
	p.logEvent("extraction.failed", map[string]any{"reason": msg})
	return &models.BatchResult{
		Success: false,
		Error:   msg,
	}
}

func (p *pipeline) logEvent(eventType string, data map[string]any) {
	if p.eventLogger == nil {
		return
	}
	// Event log failures never fail a batch.
	_ = p.eventLogger.LogEvent(eventType, data)
}
