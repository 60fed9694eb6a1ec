// Package internal provides the App struct that wires all components of the
// mail-triage system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/mail-triage/internal/cli"
	"github.com/valter-silva-au/mail-triage/internal/core"
	"github.com/valter-silva-au/mail-triage/internal/extraction"
	"github.com/valter-silva-au/mail-triage/internal/observability"
	"github.com/valter-silva-au/mail-triage/pkg/models"
)

// App holds all service dependencies for the mail-triage system.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Core services
	Calculator core.ConfidenceCalculator
	Pipeline   core.Pipeline

	// Extraction boundary
	Extractor extraction.Extractor

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of the mail-triage system.
// basePath is the directory where .mtxconfig and the event log live.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	app.Config = globalCfg

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".mtx_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		app.EventLog = nil
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Extraction boundary ---
	// Non-fatal when no API key is configured: commands that do not call
	// the extraction service (score_task over MCP) still work.
	extractor, extractErr := extraction.NewAnthropicExtractor(extraction.Config{
		Model:     globalCfg.Model,
		MaxTokens: globalCfg.MaxTokens,
	})
	if extractErr == nil {
		app.Extractor = extractor
	}

	// --- Core services ---
	app.Calculator = core.NewConfidenceCalculator()

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	app.Pipeline, err = core.NewPipeline(
		app.Calculator,
		app.Extractor,
		globalCfg.AutoApproveThreshold,
		globalCfg.HighPriorityThreshold,
		evtAdapter,
	)
	if err != nil {
		return nil, err
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Pipeline = app.Pipeline
	cli.Calculator = app.Calculator
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the mail-triage data
// directory. It checks the MTX_HOME env var, then walks up from the current
// directory looking for a .mtxconfig file.
func ResolveBasePath() string {
	if home := os.Getenv("MTX_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".mtxconfig")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// Fall back to cwd.
	cwd, _ := os.Getwd()
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:  time.Now(),
		Level: "INFO",
		Type:  eventType,
		Data:  data,
	})
}
