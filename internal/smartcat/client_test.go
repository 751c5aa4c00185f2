package smartcat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		Username:  "account",
		Password:  "secret",
		ServerURL: server.URL,
		Timeout:   5,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{Username: "only-user"})
	require.Error(t, err)
}

func TestAttachDocument_SendsMultipartWithAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/integration/v1/project/document", r.URL.Path)
		assert.Equal(t, "project-1", r.URL.Query().Get("projectId"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "account", user)
		assert.Equal(t, "secret", pass)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.docx", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), content)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"doc-1"}]`))
	})

	resp, err := client.AttachDocument(context.Background(), "project-1", "report.docx", []byte("payload"))
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `[{"id":"doc-1"}]`, string(resp.Body))
}

func TestRequestExport_RepeatsDocumentIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/integration/v1/document/export", r.URL.Path)
		assert.Equal(t, []string{"doc-1", "doc-2"}, r.URL.Query()["documentIds"])
		assert.Equal(t, "target", r.URL.Query().Get("type"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"task-1"}`))
	})

	resp, err := client.RequestExport(context.Background(), []string{"doc-1", "doc-2"}, "target")
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestDownloadExportResult_SurfacesAccepted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/integration/v1/document/export/task-1", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	})

	resp, err := client.DownloadExportResult(context.Background(), "task-1")
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestDeleteDocument_PassesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "doc-1", r.URL.Query().Get("documentId"))
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := client.DeleteDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSegmentConfirmationStatistics_Path(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/integration/v1/project/project-1/segmentConfirmationStatistics", r.URL.Path)
		assert.Equal(t, "doc-1", r.URL.Query().Get("documentId"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	})

	resp, err := client.SegmentConfirmationStatistics(context.Background(), "project-1", "doc-1")
	require.NoError(t, err)
	assert.True(t, resp.OK())
}
