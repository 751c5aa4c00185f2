package smartcat

import (
	"context"
	"net/http"
)

// Response carries the raw outcome of a remote API call. Status interpretation
// (200 vs 202 vs error) belongs to the caller, not the client.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the remote call returned HTTP 200.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// API is the remote translation platform capability consumed by the transfer
// layer. Implementations must be safe for concurrent use.
type API interface {
	// AttachDocument uploads a document into a project and returns the raw
	// response; the body contains the created document record(s).
	AttachDocument(ctx context.Context, projectID, filename string, content []byte) (*Response, error)

	// GetDocument fetches a document's status record.
	GetDocument(ctx context.Context, documentID string) (*Response, error)

	// RequestExport starts an export job for the given documents.
	RequestExport(ctx context.Context, documentIDs []string, targetType string) (*Response, error)

	// DownloadExportResult fetches the export artifact. 200 means the artifact
	// body is ready, 202 means the export is still rendering.
	DownloadExportResult(ctx context.Context, taskID string) (*Response, error)

	// DeleteDocument removes a document from the platform.
	DeleteDocument(ctx context.Context, documentID string) (*Response, error)

	// SegmentConfirmationStatistics fetches per-stage word-count statistics for
	// a document within a project.
	SegmentConfirmationStatistics(ctx context.Context, projectID, documentID string) (*Response, error)
}
