package cli

import (
	"github.com/valter-silva-au/mail-triage/internal/core"
	"github.com/valter-silva-au/mail-triage/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Pipeline    core.Pipeline
	Calculator  core.ConfidenceCalculator
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
