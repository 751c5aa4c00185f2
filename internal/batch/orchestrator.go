package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mpetrenko/smartcat-translator/internal/transfer"
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

// exportPollAttempts bounds the export-readiness loop. Export rendering is
// fast compared to pre-translation, so the window is fixed and tight.
const exportPollAttempts = 30

// TransferService is the single-document operation surface the orchestrator
// drives. Satisfied by *transfer.Service.
type TransferService interface {
	UploadText(ctx context.Context, text string) (documentID, name string, err error)
	UploadFile(ctx context.Context, path string) (string, error)
	TranslationReady(ctx context.Context, documentID string) (bool, error)
	RequestExport(ctx context.Context, documentID string) (string, error)
	PollExport(ctx context.Context, taskID string) (transfer.ExportResult, error)
	FetchStatistics(ctx context.Context, documentID string) *transfer.Statistics
	Delete(ctx context.Context, documentID string)
}

// Orchestrator drives a batch of work items through the
// upload/poll/export/download pipeline. One Run call executes one batch;
// items fail independently and never abort their siblings.
type Orchestrator struct {
	svc      TransferService
	reporter ProgressReporter
	cfg      Config
}

func New(svc TransferService, reporter ProgressReporter, cfg Config) *Orchestrator {
	if reporter == nil {
		reporter = NewLogReporter()
	}
	if cfg.TranslationPoll.MaxAttempts <= 0 {
		cfg.TranslationPoll.MaxAttempts = 1
	}
	return &Orchestrator{
		svc:      svc,
		reporter: reporter,
		cfg:      cfg,
	}
}

// Run executes one batch. The caller receives either a BatchResult covering
// every item, or a single batch-level error — never both.
func (o *Orchestrator) Run(ctx context.Context, inputs []Input) (result *BatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			batchErr := transfer.NewError(transfer.ErrUnknown, fmt.Sprintf("batch aborted: %v", r))
			o.reporter.OnError(batchErr.Error())
			result = nil
			err = batchErr
		}
	}()

	if len(inputs) == 0 {
		batchErr := transfer.NewError(transfer.ErrUnknown, "batch contains no work items")
		o.reporter.OnError(batchErr.Error())
		return nil, batchErr
	}

	items := o.newWorkItems(inputs)
	o.reporter.OnProgress(fmt.Sprintf("Translating %d item(s) from %s to %s",
		len(items), o.cfg.SourceLanguage, o.cfg.TargetLanguage))

	o.uploadAll(ctx, items)
	o.awaitTranslation(ctx, items)
	o.exportAndDownload(ctx, items)

	result = o.collect(items)
	o.reporter.OnBatchCompleted(result.Summary())
	return result, nil
}

func (o *Orchestrator) newWorkItems(inputs []Input) []*WorkItem {
	now := time.Now().Format("20060102_150405")

	items := make([]*WorkItem, 0, len(inputs))
	for i, input := range inputs {
		label := filepath.Base(input.FilePath)
		if input.FilePath == "" {
			label = fmt.Sprintf("source_text_%s_%d.json", now, i+1)
		}
		items = append(items, &WorkItem{
			Label: label,
			Input: input,
			State: StatePending,
		})
	}
	return items
}

// uploadAll pushes every item to the platform in submission order. Upload
// failures are terminal for the item: a transient network error is
// indistinguishable from a permanent one at this layer.
func (o *Orchestrator) uploadAll(ctx context.Context, items []*WorkItem) {
	for _, item := range items {
		if ctx.Err() != nil {
			o.failItem(ctx, item, cancelledError())
			continue
		}

		item.advance(StateUploading)
		o.reporter.OnProgress(fmt.Sprintf("Uploading %s...", item.Label))

		var documentID string
		var err error
		if item.IsFile() {
			documentID, err = o.svc.UploadFile(ctx, item.Input.FilePath)
		} else {
			documentID, _, err = o.svc.UploadText(ctx, item.Input.Text)
		}
		if err != nil {
			o.failItem(ctx, item, err)
			continue
		}

		item.DocumentID = documentID
		item.advance(StateUploaded)
		o.reporter.OnProgress(fmt.Sprintf("Uploaded %s with ID %s", item.Label, documentID))
		item.advance(StateAwaitingTranslation)
	}
}

// awaitTranslation runs batch-wide polling rounds: one round checks every
// pending item, so total wall-clock time is bounded by the slowest item
// rather than the sum of items. Items still pending after the last round
// fail with a translation timeout.
func (o *Orchestrator) awaitTranslation(ctx context.Context, items []*WorkItem) {
	attempts := o.cfg.TranslationPoll.MaxAttempts

	for round := 1; round <= attempts; round++ {
		if ctx.Err() != nil {
			o.cancelRemaining(ctx, items)
			return
		}

		pending := itemsInState(items, StateAwaitingTranslation)
		if len(pending) == 0 {
			return
		}

		for _, item := range pending {
			if ctx.Err() != nil {
				o.cancelRemaining(ctx, items)
				return
			}
			ready, err := o.svc.TranslationReady(ctx, item.DocumentID)
			if err != nil {
				log.Warn("Status check for %s failed: %v", item.Label, err)
				continue
			}
			if ready {
				item.advance(StateTranslationReady)
			}
		}

		readyCount := len(itemsInState(items, StateTranslationReady))
		stillPending := itemsInState(items, StateAwaitingTranslation)
		o.reporter.OnProgress(fmt.Sprintf("Waiting for pre-translation... %d/%d ready (round %d/%d)",
			readyCount, readyCount+len(stillPending), round, attempts))

		if len(stillPending) == 0 {
			return
		}
		if round < attempts && !o.sleep(ctx, o.cfg.TranslationPoll.Delay) {
			o.cancelRemaining(ctx, items)
			return
		}
	}

	for _, item := range itemsInState(items, StateAwaitingTranslation) {
		o.failItem(ctx, item, transfer.NewError(transfer.ErrTranslationTimeout, "translation did not complete in time"))
	}
}

// exportAndDownload requests and downloads the export artifact per item.
// Export jobs are independent and typically fast, so the wait is serialized
// per item.
func (o *Orchestrator) exportAndDownload(ctx context.Context, items []*WorkItem) {
	for _, item := range itemsInState(items, StateTranslationReady) {
		if ctx.Err() != nil {
			o.failItem(ctx, item, cancelledError())
			continue
		}

		item.advance(StateExporting)
		o.reporter.OnProgress(fmt.Sprintf("Requesting export for %s...", item.Label))

		taskID, err := o.svc.RequestExport(ctx, item.DocumentID)
		if err != nil {
			o.failItem(ctx, item, err)
			continue
		}
		item.ExportTaskID = taskID
		item.advance(StateAwaitingExport)

		o.pollExportUntilDone(ctx, item)

		if item.State == StateAwaitingExport {
			o.failItem(ctx, item, transfer.NewError(transfer.ErrDownloadTimeout, "download timeout"))
		}
	}
}

func (o *Orchestrator) pollExportUntilDone(ctx context.Context, item *WorkItem) {
	for attempt := 1; attempt <= exportPollAttempts; attempt++ {
		if ctx.Err() != nil {
			o.failItem(ctx, item, cancelledError())
			return
		}

		result, err := o.svc.PollExport(ctx, item.ExportTaskID)
		if err != nil {
			o.failItem(ctx, item, err)
			return
		}

		switch result.State {
		case transfer.ExportPending:
			if attempt < exportPollAttempts && !o.sleep(ctx, o.cfg.exportPollDelay()) {
				o.failItem(ctx, item, cancelledError())
				return
			}
		case transfer.ExportReady:
			o.completeItem(ctx, item, result.Payload)
			return
		default:
			o.failItem(ctx, item, transfer.NewError(transfer.ErrDownload,
				fmt.Sprintf("download failed: %d", result.StatusCode)))
			return
		}
	}
}

// completeItem persists the artifact, attaches best-effort statistics and
// performs cleanup. A statistics failure never degrades the item outcome.
func (o *Orchestrator) completeItem(ctx context.Context, item *WorkItem, payload []byte) {
	if item.IsFile() {
		outputPath := TranslatedPath(item.Input.FilePath, o.cfg.OutputDir)
		if err := writeArtifact(outputPath, payload); err != nil {
			o.failItem(ctx, item, err)
			return
		}
		item.OutputPath = outputPath
	} else {
		item.Translated = decodeTextArtifact(payload)
	}

	item.advance(StateDownloaded)
	item.Statistics = o.svc.FetchStatistics(ctx, item.DocumentID)

	status := "translated"
	if item.IsFile() {
		status = fmt.Sprintf("saved to %s", item.OutputPath)
	}
	if item.Statistics != nil {
		status += " | " + item.Statistics.String()
	}
	o.reporter.OnItemCompleted(item.Label, status)

	o.cleanup(ctx, item)
	item.advance(StateCleaned)
}

// failItem records the error, marks the item terminal and attempts cleanup
// when a remote document exists. Sibling items are unaffected.
func (o *Orchestrator) failItem(ctx context.Context, item *WorkItem, err error) {
	if item.State.Terminal() {
		return
	}
	item.Err = err
	item.advance(StateFailed)
	o.reporter.OnItemCompleted(item.Label, fmt.Sprintf("failed: %v", err))
	o.cleanup(ctx, item)
}

// cleanup deletes the remote document at most once per item. Deletion is
// best-effort and runs even when ctx was already cancelled.
func (o *Orchestrator) cleanup(ctx context.Context, item *WorkItem) {
	if item.cleanedUp || item.DocumentID == "" {
		return
	}
	item.cleanedUp = true
	o.svc.Delete(context.WithoutCancel(ctx), item.DocumentID)
}

func (o *Orchestrator) cancelRemaining(ctx context.Context, items []*WorkItem) {
	for _, item := range items {
		if !item.State.Terminal() {
			o.failItem(ctx, item, cancelledError())
		}
	}
}

func (o *Orchestrator) collect(items []*WorkItem) *BatchResult {
	result := &BatchResult{}
	for _, item := range items {
		switch item.State {
		case StateDownloaded, StateCleaned:
			result.Succeeded++
			result.Results = append(result.Results, ItemResult{
				Label:      item.Label,
				OutputPath: item.OutputPath,
				Translated: item.Translated,
				Statistics: item.Statistics,
			})
		default:
			result.Failed++
			reason := "cancelled"
			if item.Err != nil {
				reason = item.Err.Error()
			}
			result.Failures = append(result.Failures, ItemFailure{
				Label:  item.Label,
				Reason: reason,
			})
		}
	}
	return result
}

// sleep pauses between polling rounds; returns false when ctx was cancelled
// before the delay elapsed.
func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func itemsInState(items []*WorkItem, state ItemState) []*WorkItem {
	ret := make([]*WorkItem, 0, len(items))
	for _, item := range items {
		if item.State == state {
			ret = append(ret, item)
		}
	}
	return ret
}

func cancelledError() *transfer.TransferError {
	return transfer.NewError(transfer.ErrCancelled, "cancelled")
}

// writeArtifact writes the downloaded payload to its destination.
func writeArtifact(path string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return transfer.WrapError(err, transfer.ErrOutputWrite, "failed to create output directory").
			WithContext("path", path)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return transfer.WrapError(err, transfer.ErrOutputWrite, "failed to write translated file").
			WithContext("path", path)
	}
	return nil
}

// decodeTextArtifact unwraps the single-field JSON document used for inline
// text; any other payload is returned as raw text.
func decodeTextArtifact(payload []byte) string {
	var wrapped struct {
		Data *string `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Data != nil {
		return *wrapped.Data
	}
	return string(payload)
}
