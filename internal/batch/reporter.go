package batch

import (
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

// ProgressReporter receives human-readable progress strings and per-item
// outcomes. Implementations must be safe to invoke from the orchestrator's
// goroutine; progress events for an item always precede its completion event.
type ProgressReporter interface {
	OnProgress(message string)
	OnItemCompleted(label, status string)
	OnBatchCompleted(summary string)
	OnError(message string)
}

type logReporter struct{}

// NewLogReporter returns a reporter that writes all events to the application log.
func NewLogReporter() ProgressReporter {
	return logReporter{}
}

func (logReporter) OnProgress(message string) {
	log.Info("%s", message)
}

func (logReporter) OnItemCompleted(label, status string) {
	log.Info("Item %s: %s", label, status)
}

func (logReporter) OnBatchCompleted(summary string) {
	log.Info("Batch completed: %s", summary)
}

func (logReporter) OnError(message string) {
	log.Error("%s", message)
}

type nopReporter struct{}

// NewNopReporter returns a reporter that discards all events.
func NewNopReporter() ProgressReporter {
	return nopReporter{}
}

func (nopReporter) OnProgress(string)           {}
func (nopReporter) OnItemCompleted(_, _ string) {}
func (nopReporter) OnBatchCompleted(string)     {}
func (nopReporter) OnError(string)              {}
