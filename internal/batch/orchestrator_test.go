package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/smartcat-translator/internal/transfer"
)

// stubService implements TransferService with overridable call handlers and a
// record of deleted document IDs.
type stubService struct {
	mu      sync.Mutex
	deleted []string

	uploadText func(text string) (string, string, error)
	uploadFile func(path string) (string, error)
	ready      func(documentID string) (bool, error)
	export     func(documentID string) (string, error)
	poll       func(taskID string) (transfer.ExportResult, error)
	stats      func(documentID string) *transfer.Statistics
}

func (s *stubService) UploadText(_ context.Context, text string) (string, string, error) {
	if s.uploadText == nil {
		return "doc-text", "source_text_x.json", nil
	}
	return s.uploadText(text)
}

func (s *stubService) UploadFile(_ context.Context, path string) (string, error) {
	if s.uploadFile == nil {
		return "doc-" + filepath.Base(path), nil
	}
	return s.uploadFile(path)
}

func (s *stubService) TranslationReady(_ context.Context, documentID string) (bool, error) {
	if s.ready == nil {
		return true, nil
	}
	return s.ready(documentID)
}

func (s *stubService) RequestExport(_ context.Context, documentID string) (string, error) {
	if s.export == nil {
		return "task-" + documentID, nil
	}
	return s.export(documentID)
}

func (s *stubService) PollExport(_ context.Context, taskID string) (transfer.ExportResult, error) {
	if s.poll == nil {
		return transfer.ExportResult{State: transfer.ExportReady, Payload: []byte("translated"), StatusCode: 200}, nil
	}
	return s.poll(taskID)
}

func (s *stubService) FetchStatistics(_ context.Context, documentID string) *transfer.Statistics {
	if s.stats == nil {
		return nil
	}
	return s.stats(documentID)
}

func (s *stubService) Delete(_ context.Context, documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, documentID)
}

// recordingReporter captures event order for assertions.
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) OnProgress(message string) {
	r.events = append(r.events, "progress: "+message)
}

func (r *recordingReporter) OnItemCompleted(label, status string) {
	r.events = append(r.events, fmt.Sprintf("item %s: %s", label, status))
}

func (r *recordingReporter) OnBatchCompleted(summary string) {
	r.events = append(r.events, "batch: "+summary)
}

func (r *recordingReporter) OnError(message string) {
	r.events = append(r.events, "error: "+message)
}

func testConfig() Config {
	return Config{
		TranslationPoll: RetryPolicy{MaxAttempts: 3, Delay: 0},
		ExportPollDelay: 0,
	}
}

func TestRun_TextHappyPath(t *testing.T) {
	svc := &stubService{
		poll: func(string) (transfer.ExportResult, error) {
			return transfer.ExportResult{
				State:      transfer.ExportReady,
				Payload:    []byte(`{"data":"hello world"}`),
				StatusCode: 200,
			}, nil
		},
	}
	o := New(svc, NewNopReporter(), testConfig())

	result, err := o.Run(context.Background(), []Input{{Text: "привет мир"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "hello world", result.Results[0].Translated)
	assert.Equal(t, []string{"doc-text"}, svc.deleted)
}

func TestRun_TextRawBodyFallback(t *testing.T) {
	svc := &stubService{
		poll: func(string) (transfer.ExportResult, error) {
			return transfer.ExportResult{State: transfer.ExportReady, Payload: []byte("plain text"), StatusCode: 200}, nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "plain text", result.Results[0].Translated)
}

func TestRun_FileHappyPath(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(source, []byte("body"), 0o644))

	svc := &stubService{}
	cfg := testConfig()
	o := New(svc, NewNopReporter(), cfg)

	result, err := o.Run(context.Background(), []Input{{FilePath: source}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	want := filepath.Join(dir, "report-translated.docx")
	assert.Equal(t, want, result.Results[0].OutputPath)
	content, readErr := os.ReadFile(want)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("translated"), content)
}

func TestRun_FileOutputDir(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(source, []byte("body"), 0o644))

	outDir := filepath.Join(dir, "out")
	cfg := testConfig()
	cfg.OutputDir = outDir

	result, err := New(&stubService{}, NewNopReporter(), cfg).Run(context.Background(), []Input{{FilePath: source}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "report-translated.docx"), result.Results[0].OutputPath)
	_, statErr := os.Stat(result.Results[0].OutputPath)
	assert.NoError(t, statErr)
}

func TestRun_UploadFailureIsIndependent(t *testing.T) {
	svc := &stubService{
		uploadText: func(text string) (string, string, error) {
			if text == "bad" {
				return "", "", transfer.NewError(transfer.ErrUpload, "upload failed: 500")
			}
			return "doc-good", "n.json", nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "bad"}, {Text: "good"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0].Reason, "upload failed")

	// The failed item never got a document ID, so only the good one is deleted.
	assert.Equal(t, []string{"doc-good"}, svc.deleted)
}

func TestRun_TranslationPollingBatchedWithEarlyStop(t *testing.T) {
	var checks []string
	readyAfter := map[string]int{"doc-a": 1, "doc-b": 2}
	counts := map[string]int{}

	svc := &stubService{
		uploadFile: func(path string) (string, error) { return "doc-" + filepath.Base(path), nil },
		ready: func(documentID string) (bool, error) {
			checks = append(checks, documentID)
			counts[documentID]++
			return counts[documentID] >= readyAfter[documentID], nil
		},
	}

	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(),
		[]Input{{FilePath: filepath.Join(dir, "a")}, {FilePath: filepath.Join(dir, "b")}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)

	// Round 1 checks both; round 2 checks only the still-pending item.
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-b"}, checks)
}

func TestRun_TranslationTimeout(t *testing.T) {
	svc := &stubService{
		ready: func(string) (bool, error) { return false, nil },
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0].Reason, "translation did not complete in time")

	// Cleanup still runs for the uploaded document.
	assert.Equal(t, []string{"doc-text"}, svc.deleted)
}

func TestRun_StatusCheckErrorDoesNotFailItem(t *testing.T) {
	calls := 0
	svc := &stubService{
		ready: func(string) (bool, error) {
			calls++
			if calls == 1 {
				return false, fmt.Errorf("conn refused")
			}
			return true, nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestRun_ExportReadyOnFinalAttempt(t *testing.T) {
	polls := 0
	svc := &stubService{
		poll: func(string) (transfer.ExportResult, error) {
			polls++
			if polls < exportPollAttempts {
				return transfer.ExportResult{State: transfer.ExportPending, StatusCode: 202}, nil
			}
			return transfer.ExportResult{State: transfer.ExportReady, Payload: []byte("late"), StatusCode: 200}, nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, exportPollAttempts, polls)
}

func TestRun_ExportNeverReady(t *testing.T) {
	polls := 0
	svc := &stubService{
		poll: func(string) (transfer.ExportResult, error) {
			polls++
			return transfer.ExportResult{State: transfer.ExportPending, StatusCode: 202}, nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0].Reason, "download timeout")
	assert.Equal(t, exportPollAttempts, polls)
	assert.Equal(t, []string{"doc-text"}, svc.deleted)
}

func TestRun_ExportErrorStatus(t *testing.T) {
	svc := &stubService{
		poll: func(string) (transfer.ExportResult, error) {
			return transfer.ExportResult{State: transfer.ExportFailed, StatusCode: 404}, nil
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0].Reason, "404")
}

func TestRun_CleanupRunsExactlyOnce(t *testing.T) {
	svc := &stubService{}
	_, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-text"}, svc.deleted)
}

func TestRun_StatisticsFailureDoesNotFailItem(t *testing.T) {
	svc := &stubService{
		stats: func(string) *transfer.Statistics { return nil },
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Nil(t, result.Results[0].Statistics)
}

func TestRun_StatisticsAttachedWhenAvailable(t *testing.T) {
	svc := &stubService{
		stats: func(string) *transfer.Statistics {
			return &transfer.Statistics{MachineTranslation: 10, TranslationMemory: 20, Total: 30}
		},
	}
	result, err := New(svc, NewNopReporter(), testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)
	require.NotNil(t, result.Results[0].Statistics)
	assert.Equal(t, 30, result.Results[0].Statistics.Total)
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &stubService{
		ready: func(string) (bool, error) {
			cancel()
			return false, nil
		},
	}
	cfg := testConfig()
	cfg.TranslationPoll.Delay = time.Hour

	result, err := New(svc, NewNopReporter(), cfg).Run(ctx, []Input{{Text: "x"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Failures[0].Reason, "cancelled")

	// Cleanup still runs after cancellation.
	assert.Equal(t, []string{"doc-text"}, svc.deleted)
}

func TestRun_EmptyBatchIsError(t *testing.T) {
	result, err := New(&stubService{}, NewNopReporter(), testConfig()).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestRun_PanicBecomesBatchError(t *testing.T) {
	svc := &stubService{
		uploadText: func(string) (string, string, error) { panic("boom") },
	}
	reporter := &recordingReporter{}
	result, err := New(svc, reporter, testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "batch aborted")
	require.NotEmpty(t, reporter.events)
	assert.Contains(t, reporter.events[len(reporter.events)-1], "error:")
}

func TestRun_ProgressPrecedesCompletion(t *testing.T) {
	reporter := &recordingReporter{}
	_, err := New(&stubService{}, reporter, testConfig()).Run(context.Background(), []Input{{Text: "x"}})
	require.NoError(t, err)

	var firstItem, lastProgress int = -1, -1
	for i, e := range reporter.events {
		if firstItem < 0 && len(e) > 5 && e[:5] == "item " {
			firstItem = i
		}
		if len(e) > 9 && e[:9] == "progress:" {
			lastProgress = i
		}
	}
	require.GreaterOrEqual(t, firstItem, 0)
	assert.Less(t, lastProgress, firstItem, "all progress events precede the completion event")
	assert.Contains(t, reporter.events[len(reporter.events)-1], "batch: 1 translated, 0 failed.")
}
