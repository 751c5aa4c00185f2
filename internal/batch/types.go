package batch

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/mpetrenko/smartcat-translator/internal/transfer"
)

// ItemState is one stage of the per-item workflow. Progression is strictly
// monotonic; StateFailed is reachable from any non-terminal state.
type ItemState string

const (
	StatePending             ItemState = "pending"
	StateUploading           ItemState = "uploading"
	StateUploaded            ItemState = "uploaded"
	StateAwaitingTranslation ItemState = "awaiting_translation"
	StateTranslationReady    ItemState = "translation_ready"
	StateExporting           ItemState = "exporting"
	StateAwaitingExport      ItemState = "awaiting_export"
	StateDownloaded          ItemState = "downloaded"
	StateCleaned             ItemState = "cleaned"
	StateFailed              ItemState = "failed"
)

var stateRank = map[ItemState]int{
	StatePending:             0,
	StateUploading:           1,
	StateUploaded:            2,
	StateAwaitingTranslation: 3,
	StateTranslationReady:    4,
	StateExporting:           5,
	StateAwaitingExport:      6,
	StateDownloaded:          7,
	StateCleaned:             8,
}

// Terminal reports whether no further transition is allowed from s.
func (s ItemState) Terminal() bool {
	return s == StateCleaned || s == StateFailed
}

// Input is one unit submitted for translation: either inline text or a file
// reference, never both.
type Input struct {
	Text     string
	FilePath string
}

// WorkItem tracks one input through the pipeline. Mutated only by the
// orchestrator; discarded once the batch summary is emitted.
type WorkItem struct {
	Label        string
	Input        Input
	State        ItemState
	DocumentID   string
	ExportTaskID string
	OutputPath   string
	Translated   string
	Statistics   *transfer.Statistics
	Err          error

	cleanedUp bool
}

// advance moves the item forward to next. Regressions and transitions out of
// a terminal state are rejected.
func (w *WorkItem) advance(next ItemState) bool {
	if w.State.Terminal() {
		return false
	}
	if next == StateFailed {
		w.State = StateFailed
		return true
	}
	nextRank, ok := stateRank[next]
	if !ok || nextRank <= stateRank[w.State] {
		return false
	}
	w.State = next
	return true
}

// IsFile reports whether the item came from a file reference.
func (w *WorkItem) IsFile() bool {
	return w.Input.FilePath != ""
}

// ItemResult is one successful outcome within a batch.
type ItemResult struct {
	Label      string
	OutputPath string
	Translated string
	Statistics *transfer.Statistics
}

// ItemFailure is one failed outcome within a batch.
type ItemFailure struct {
	Label  string
	Reason string
}

// BatchResult aggregates all item outcomes of one submission. Constructed
// once, after every item reached a terminal state.
type BatchResult struct {
	Succeeded int
	Failed    int
	Results   []ItemResult
	Failures  []ItemFailure
}

// Summary renders the batch outcome as a single human-readable line.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("%d translated, %d failed.", r.Succeeded, r.Failed)
}

// RetryPolicy bounds a polling loop: how many rounds, and how long to sleep
// between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Config controls one orchestrator instance. Translation polling is
// configurable; export polling is fixed at 30 rounds and reuses the
// translation-poll delay unless ExportPollDelay overrides it.
type Config struct {
	TranslationPoll RetryPolicy
	ExportPollDelay time.Duration

	// OutputDir receives translated files; empty means next to the source.
	OutputDir string

	// Language tags are display-only at this layer.
	SourceLanguage language.Tag
	TargetLanguage language.Tag
}

func (c Config) exportPollDelay() time.Duration {
	if c.ExportPollDelay > 0 {
		return c.ExportPollDelay
	}
	return c.TranslationPoll.Delay
}
