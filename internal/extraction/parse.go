package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// wireResult mirrors the JSON envelope the model is instructed to emit.
type wireResult struct {
	Tasks             []wireTask `json:"tasks"`
	OverallConfidence float64    `json:"overall_confidence"`
	Ambiguities       []string   `json:"ambiguities"`
}

type wireTask struct {
	Description    string   `json:"task_description"`
	Assignee       string   `json:"assignee"`
	Deadline       *string  `json:"deadline"`
	Priority       string   `json:"priority"`
	BaseConfidence float64  `json:"confidence_score"`
	Reasoning      string   `json:"reasoning"`
}

// parseResponse decodes the model's reply into an ExtractionResult.
// Malformed JSON yields an error envelope (Err true) rather than a Go
// error, matching how the extraction service itself reports failure.
func parseResponse(raw string) *models.ExtractionResult {
	cleaned := stripCodeFences(raw)

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return errorResult(fmt.Sprintf("invalid JSON response from extraction model: %v", err))
	}

	tasks := make([]models.RawTask, 0, len(wire.Tasks))
	for _, wt := range wire.Tasks {
		tasks = append(tasks, normalizeTask(wt))
	}

	return &models.ExtractionResult{
		Tasks:             tasks,
		OverallConfidence: wire.OverallConfidence,
		Ambiguities:       wire.Ambiguities,
	}
}

// normalizeTask converts a wire task into a RawTask, applying the
// defensive field normalizations: an absent or blank assignee becomes the
// "unspecified" sentinel so the no-assignee penalty fires either way, a
// blank deadline becomes nil, and an unknown priority falls back to
// medium. Confidence is left as-is; the calculator clamps it.
func normalizeTask(wt wireTask) models.RawTask {
	assignee := strings.TrimSpace(wt.Assignee)
	if assignee == "" {
		assignee = models.AssigneeUnspecified
	}

	deadline := wt.Deadline
	if deadline != nil && strings.TrimSpace(*deadline) == "" {
		deadline = nil
	}

	priority := models.Priority(wt.Priority)
	switch priority {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
	default:
		priority = models.PriorityMedium
	}

	return models.RawTask{
		Description:    wt.Description,
		Assignee:       assignee,
		Deadline:       deadline,
		Priority:       priority,
		BaseConfidence: wt.BaseConfidence,
		Reasoning:      wt.Reasoning,
	}
}

// stripCodeFences removes a surrounding markdown code fence if the model
// ignored the no-markdown instruction.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// errorResult builds the standardized error envelope.
func errorResult(msg string) *models.ExtractionResult {
	return &models.ExtractionResult{
		Tasks:             []models.RawTask{},
		OverallConfidence: 0.0,
		Ambiguities:       []string{msg},
		Err:               true,
	}
}
