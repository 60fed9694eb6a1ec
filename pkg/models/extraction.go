package models

import "time"

// ExtractionResult is the batch envelope returned by the extraction
// service for one email. Err is true when the service could not produce a
// usable task list; in that case Ambiguities carries the reason and Tasks
// is empty.
type ExtractionResult struct {
	Tasks             []RawTask `json:"tasks" yaml:"tasks"`
	OverallConfidence float64   `json:"overall_confidence" yaml:"overall_confidence"`
	Ambiguities       []string  `json:"ambiguities" yaml:"ambiguities"`
	Err               bool      `json:"error,omitempty" yaml:"error,omitempty"`
	ExtractedAt       time.Time `json:"extraction_timestamp" yaml:"extraction_timestamp"`
	Model             string    `json:"model_used,omitempty" yaml:"model_used,omitempty"`
}

// ErrorMessage returns the first ambiguity, which carries the failure
// reason when Err is set.
func (r *ExtractionResult) ErrorMessage() string {
	if len(r.Ambiguities) > 0 {
		return r.Ambiguities[0]
	}
	return "unknown extraction error"
}
