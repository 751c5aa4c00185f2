package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mpetrenko/smartcat-translator/internal/smartcat"
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

// exportTargetType selects the translated content when requesting an export.
const exportTargetType = "target"

// Service wraps single-document operations against the remote platform.
// It never retries internally: polling cadence belongs to the orchestrator so
// that rounds can be interleaved across a whole batch.
type Service struct {
	api       smartcat.API
	projectID string
}

func NewService(api smartcat.API, projectID string) *Service {
	return &Service{
		api:       api,
		projectID: projectID,
	}
}

// UploadText wraps inline text as a single-field JSON document and uploads it.
// Returns the remote document id and the synthetic document name.
func (s *Service) UploadText(ctx context.Context, text string) (string, string, error) {
	payload, err := json.MarshalIndent(map[string]string{"data": text}, "", "  ")
	if err != nil {
		return "", "", WrapError(err, ErrUpload, "failed to encode text payload")
	}

	name := fmt.Sprintf("source_text_%s.json", time.Now().Format("20060102_150405"))
	documentID, err := s.upload(ctx, name, payload)
	if err != nil {
		return "", "", err
	}
	return documentID, name, nil
}

// UploadFile uploads the file at path under its base name.
func (s *Service) UploadFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(err, ErrUpload, "failed to read source file").WithContext("path", path)
	}
	return s.upload(ctx, filepath.Base(path), content)
}

func (s *Service) upload(ctx context.Context, name string, content []byte) (string, error) {
	resp, err := s.api.AttachDocument(ctx, s.projectID, name, content)
	if err != nil {
		return "", WrapError(err, ErrUpload, "attach document call failed").WithContext("name", name)
	}
	if !resp.OK() {
		return "", NewError(ErrUpload, fmt.Sprintf("upload failed: %d - %s", resp.StatusCode, truncate(resp.Body, 200))).
			WithContext("name", name)
	}

	documentID, err := extractDocumentID(resp.Body)
	if err != nil {
		return "", err
	}
	return documentID, nil
}

// extractDocumentID accepts both response shapes the platform produces: a
// single document record or a list whose first element is the record.
func extractDocumentID(body []byte) (string, error) {
	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &record); err == nil && record.ID != "" {
		return record.ID, nil
	}

	var records []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &records); err == nil && len(records) > 0 && records[0].ID != "" {
		return records[0].ID, nil
	}

	return "", NewError(ErrMalformedResponse, "no document id in upload response").
		WithContext("body", truncate(body, 200))
}

// TranslationReady performs a single pre-translation status check.
// A non-200 status counts as "not ready yet", not as an error.
func (s *Service) TranslationReady(ctx context.Context, documentID string) (bool, error) {
	resp, err := s.api.GetDocument(ctx, documentID)
	if err != nil {
		return false, WrapError(err, ErrUnknown, "get document call failed").WithContext("document_id", documentID)
	}
	if !resp.OK() {
		return false, nil
	}

	var status struct {
		PretranslateCompleted bool `json:"pretranslateCompleted"`
	}
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return false, nil
	}
	return status.PretranslateCompleted, nil
}

// RequestExport starts an export of the translated content for one document.
func (s *Service) RequestExport(ctx context.Context, documentID string) (string, error) {
	resp, err := s.api.RequestExport(ctx, []string{documentID}, exportTargetType)
	if err != nil {
		return "", WrapError(err, ErrExportRequest, "export request call failed").WithContext("document_id", documentID)
	}
	if !resp.OK() {
		return "", NewError(ErrExportRequest, fmt.Sprintf("export request failed: %d", resp.StatusCode)).
			WithContext("document_id", documentID)
	}

	var task struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &task); err != nil || task.ID == "" {
		return "", NewError(ErrExportRequest, "no task id in export response").
			WithContext("document_id", documentID)
	}
	return task.ID, nil
}

// PollExport performs a single export-task check.
func (s *Service) PollExport(ctx context.Context, taskID string) (ExportResult, error) {
	resp, err := s.api.DownloadExportResult(ctx, taskID)
	if err != nil {
		return ExportResult{}, WrapError(err, ErrDownload, "download export call failed").WithContext("task_id", taskID)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return ExportResult{State: ExportReady, Payload: resp.Body, StatusCode: resp.StatusCode}, nil
	case http.StatusAccepted:
		return ExportResult{State: ExportPending, StatusCode: resp.StatusCode}, nil
	default:
		return ExportResult{State: ExportFailed, StatusCode: resp.StatusCode}, nil
	}
}

// FetchStatistics is best-effort: any failure degrades to nil rather than
// propagating, and a zero word total counts as unavailable.
func (s *Service) FetchStatistics(ctx context.Context, documentID string) *Statistics {
	// The statistics endpoint addresses the bare document id; composite
	// "<docId>_<languageId>" ids are truncated at the first underscore.
	bareID := documentID
	if i := strings.Index(bareID, "_"); i > 0 {
		bareID = bareID[:i]
	}

	resp, err := s.api.SegmentConfirmationStatistics(ctx, s.projectID, bareID)
	if err != nil {
		log.Warn("Statistics fetch for document %s failed: %v", documentID, err)
		return nil
	}
	if !resp.OK() {
		log.Warn("Statistics fetch for document %s returned status %d", documentID, resp.StatusCode)
		return nil
	}

	stats := computeStatistics(resp.Body)
	if stats == nil {
		log.Warn("Statistics for document %s are unavailable", documentID)
	}
	return stats
}

// Delete is best-effort cleanup: all failures are swallowed and logged.
func (s *Service) Delete(ctx context.Context, documentID string) {
	if documentID == "" {
		return
	}
	resp, err := s.api.DeleteDocument(ctx, documentID)
	if err != nil {
		log.Warn("Failed to delete document %s: %v", documentID, err)
		return
	}
	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn("Delete of document %s returned status %d", documentID, resp.StatusCode)
		return
	}
	log.Debug("Deleted remote document %s", documentID)
}

func truncate(body []byte, limit int) string {
	s := string(body)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
