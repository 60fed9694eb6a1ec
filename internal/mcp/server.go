// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the mail-triage pipeline as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/mail-triage/internal/core"
	"github.com/valter-silva-au/mail-triage/internal/observability"
	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// Server wraps the triage services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	pipeline    core.Pipeline
	calculator  core.ConfidenceCalculator
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server with the given service dependencies.
// metricsCalc may be nil if observability is disabled.
func NewServer(pipeline core.Pipeline, calculator core.ConfidenceCalculator, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		pipeline:    pipeline,
		calculator:  calculator,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "mtx", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on the given transport, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type processEmailInput struct {
	EmailContent string `json:"email_content" jsonschema:"required,the raw email body to extract tasks from"`
	Sender       string `json:"sender,omitempty" jsonschema:"the email sender, used as extraction context"`
}

type routedTaskOutput struct {
	Description     string   `json:"task_description"`
	Assignee        string   `json:"assignee"`
	Deadline        string   `json:"deadline,omitempty"`
	Priority        string   `json:"priority"`
	FinalConfidence float64  `json:"final_confidence"`
	Adjustments     []string `json:"adjustments,omitempty"`
	ReviewStatus    string   `json:"review_status"`
	Queue           string   `json:"queue"`
	RoutedAt        string   `json:"routed_at"`
}

type processEmailOutput struct {
	Success            bool               `json:"success"`
	Error              string             `json:"error,omitempty"`
	Tasks              []routedTaskOutput `json:"tasks"`
	TotalTasks         int                `json:"total_tasks"`
	AutoApproved       int                `json:"auto_approved"`
	StandardReview     int                `json:"standard_review"`
	HighPriorityReview int                `json:"high_priority_review"`
}

type scoreTaskInput struct {
	Description    string  `json:"task_description" jsonschema:"required,the action item text"`
	Assignee       string  `json:"assignee,omitempty" jsonschema:"person responsible, or unspecified"`
	Deadline       string  `json:"deadline,omitempty" jsonschema:"ISO deadline (YYYY-MM-DD), empty if none"`
	BaseConfidence float64 `json:"confidence_score" jsonschema:"required,the extractor's confidence in [0,1]"`
}

type scoreTaskOutput struct {
	BaseConfidence  float64  `json:"base_confidence"`
	PenaltyTotal    float64  `json:"penalty_total"`
	FinalConfidence float64  `json:"final_confidence"`
	Adjustments     []string `json:"adjustments,omitempty"`
	NeedsReview     bool     `json:"needs_review"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	EmailsProcessed    int            `json:"emails_processed"`
	ExtractionFailures int            `json:"extraction_failures"`
	TasksRouted        int            `json:"tasks_routed"`
	TasksByLane        map[string]int `json:"tasks_by_lane"`
	TasksByStatus      map[string]int `json:"tasks_by_status"`
	EventCount         int            `json:"event_count"`
	OldestEvent        string         `json:"oldest_event,omitempty"`
	NewestEvent        string         `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "process_email",
		Description: "Extract tasks from raw email content, score each extraction, and route tasks into auto-approved, standard-review, and high-priority-review queues.",
	}, s.handleProcessEmail)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "score_task",
		Description: "Apply the confidence penalty rules to a single task record and return the adjusted confidence metrics. Does not touch any review queue.",
	}, s.handleScoreTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: emails processed, extraction failures, and routed task counts per lane.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleProcessEmail(ctx context.Context, _ *gomcp.CallToolRequest, input processEmailInput) (*gomcp.CallToolResult, processEmailOutput, error) {
	if input.EmailContent == "" {
		return errorResult("email_content is required"), processEmailOutput{}, nil
	}

	result := s.pipeline.ProcessEmail(ctx, input.EmailContent, input.Sender)
	if !result.Success {
		return errorResult(fmt.Sprintf("processing email: %s", result.Error)), processEmailOutput{Error: result.Error}, nil
	}

	out := processEmailOutput{
		Success:            true,
		Tasks:              make([]routedTaskOutput, len(result.ProcessedTasks)),
		TotalTasks:         result.QueueSummary.TotalTasks,
		AutoApproved:       result.QueueSummary.AutoApproved,
		StandardReview:     result.QueueSummary.StandardReview,
		HighPriorityReview: result.QueueSummary.HighPriorityReview,
	}
	for i, t := range result.ProcessedTasks {
		out.Tasks[i] = routedTaskToOutput(t)
	}

	return nil, out, nil
}

func (s *Server) handleScoreTask(_ context.Context, _ *gomcp.CallToolRequest, input scoreTaskInput) (*gomcp.CallToolResult, scoreTaskOutput, error) {
	if input.Description == "" {
		return errorResult("task_description is required"), scoreTaskOutput{}, nil
	}

	assignee := input.Assignee
	if assignee == "" {
		assignee = models.AssigneeUnspecified
	}
	var deadline *string
	if input.Deadline != "" {
		deadline = &input.Deadline
	}

	metrics := s.calculator.Score(models.RawTask{
		Description:    input.Description,
		Assignee:       assignee,
		Deadline:       deadline,
		BaseConfidence: input.BaseConfidence,
	})

	out := scoreTaskOutput{
		BaseConfidence:  metrics.BaseConfidence,
		PenaltyTotal:    metrics.PenaltyTotal,
		FinalConfidence: metrics.FinalConfidence,
		Adjustments:     metrics.Adjustments,
		NeedsReview:     metrics.NeedsReview,
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		EmailsProcessed:    metrics.EmailsProcessed,
		ExtractionFailures: metrics.ExtractionFailures,
		TasksRouted:        metrics.TasksRouted,
		TasksByLane:        metrics.TasksByLane,
		TasksByStatus:      metrics.TasksByStatus,
		EventCount:         metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

func routedTaskToOutput(t models.RoutedTask) routedTaskOutput {
	out := routedTaskOutput{
		Description:     t.Task.Description,
		Assignee:        t.Task.Assignee,
		Priority:        string(t.Task.Priority),
		FinalConfidence: t.Metrics.FinalConfidence,
		Adjustments:     t.Metrics.Adjustments,
		ReviewStatus:    string(t.Status),
		Queue:           string(t.Lane),
		RoutedAt:        t.RoutedAt.Format(time.RFC3339),
	}
	if t.Task.Deadline != nil {
		out.Deadline = *t.Task.Deadline
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		TasksByLane:   make(map[string]int),
		TasksByStatus: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
