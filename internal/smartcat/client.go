package smartcat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds connection settings for the Smartcat integration API.
type Config struct {
	Username  string
	Password  string
	ServerURL string
	Timeout   int
}

// Validate checks that the configuration can produce a usable client.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	return nil
}

// Client is a thin REST client for the Smartcat integration API.
// Thread-safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new API client with the given configuration.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30
	}

	client := &Client{
		config:  config,
		baseURL: strings.TrimRight(config.ServerURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}

	return client, nil
}

func (c *Client) AttachDocument(ctx context.Context, projectID, filename string, content []byte) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := "/api/integration/v1/project/document?projectId=" + url.QueryEscape(projectID)
	return c.makeRequest(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
}

func (c *Client) GetDocument(ctx context.Context, documentID string) (*Response, error) {
	path := "/api/integration/v1/document?documentId=" + url.QueryEscape(documentID)
	return c.makeRequest(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) RequestExport(ctx context.Context, documentIDs []string, targetType string) (*Response, error) {
	query := url.Values{}
	for _, id := range documentIDs {
		query.Add("documentIds", id)
	}
	if targetType != "" {
		query.Set("type", targetType)
	}
	path := "/api/integration/v1/document/export?" + query.Encode()
	return c.makeRequest(ctx, http.MethodPost, path, nil, "")
}

func (c *Client) DownloadExportResult(ctx context.Context, taskID string) (*Response, error) {
	path := "/api/integration/v1/document/export/" + url.PathEscape(taskID)
	return c.makeRequest(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) DeleteDocument(ctx context.Context, documentID string) (*Response, error) {
	path := "/api/integration/v1/document?documentId=" + url.QueryEscape(documentID)
	return c.makeRequest(ctx, http.MethodDelete, path, nil, "")
}

func (c *Client) SegmentConfirmationStatistics(ctx context.Context, projectID, documentID string) (*Response, error) {
	path := fmt.Sprintf(
		"/api/integration/v1/project/%s/segmentConfirmationStatistics?documentId=%s",
		url.PathEscape(projectID),
		url.QueryEscape(documentID),
	)
	return c.makeRequest(ctx, http.MethodGet, path, nil, "")
}

// makeRequest makes a raw HTTP request against the configured API.
// The response status code is never interpreted here.
func (c *Client) makeRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.Username, c.config.Password)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("request timed out: %w", err)
		}
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       responseBody,
	}, nil
}
