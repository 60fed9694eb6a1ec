package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	EmailsProcessed    int            `json:"emails_processed"`
	ExtractionFailures int            `json:"extraction_failures"`
	TasksRouted        int            `json:"tasks_routed"`
	TasksByLane        map[string]int `json:"tasks_by_lane"`
	TasksByStatus      map[string]int `json:"tasks_by_status"`
	EventCount         int            `json:"event_count"`
	OldestEvent        *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent        *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TasksByLane:   make(map[string]int),
		TasksByStatus: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "email.processed":
			m.EmailsProcessed++
		case "extraction.failed":
			m.ExtractionFailures++
		case "task.routed":
			m.TasksRouted++
			if lane, ok := event.Data["queue"].(string); ok {
				m.TasksByLane[lane]++
			}
			if status, ok := event.Data["review_status"].(string); ok {
				m.TasksByStatus[status]++
			}
		}
	}

	return m, nil
}
