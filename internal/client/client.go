// Package client implements the HTTP client for the PageMonk backend.
// Every operation is a single round trip with no internal retry; callers
// decide what a failure means for their sequence.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagemonk/pagemonk/internal/domain"
	"github.com/pagemonk/pagemonk/internal/observability"
)

const defaultTimeout = 60 * time.Second

// Client handles communication with the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *observability.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a backend client for the given base URL.
func New(baseURL string, logger *observability.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = observability.Nop()
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.WithComponent("client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// errorResponse is the backend's error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Upload sends a file as multipart form data to POST /upload and returns
// the created document record. onProgress, when non-nil, is invoked with
// monotonically non-decreasing percentages from 0 to 100 as the request
// body is consumed by the transport.
func (c *Client) Upload(ctx context.Context, path string, onProgress func(pct int)) (*domain.DocumentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewTransferError(fmt.Sprintf("open file %s", path), 0, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, domain.NewTransferError("build multipart body", 0, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, domain.NewTransferError(fmt.Sprintf("read file %s", path), 0, err)
	}
	if err := w.Close(); err != nil {
		return nil, domain.NewTransferError("finalize multipart body", 0, err)
	}

	total := int64(buf.Len())
	body := newProgressReader(&buf, total, onProgress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return nil, domain.NewTransferError("build upload request", 0, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.ContentLength = total

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransferError("upload request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.transferError(resp, "upload rejected")
	}

	var rec domain.DocumentRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, domain.NewTransferError("decode upload response", 0, err)
	}

	body.finish()

	c.logger.Debug().
		Str("filename", rec.Filename).
		Int("document_id", rec.ID).
		Int64("size", rec.FileSize).
		Msg("uploaded document")

	return &rec, nil
}

// RequestConversion asks the backend to convert document bytes into
// structured text via POST /parse/{id}. The orchestrator calls this
// exactly once per document.
func (c *Client) RequestConversion(ctx context.Context, documentID int) error {
	resp, err := c.post(ctx, fmt.Sprintf("/parse/%d", documentID), nil)
	if err != nil {
		return domain.NewTransferError("conversion request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.transferError(resp, "conversion request rejected")
	}
	return nil
}

// GetDocument reads the current document record via GET /documents/{id}.
func (c *Client) GetDocument(ctx context.Context, documentID int) (*domain.DocumentRecord, error) {
	var rec domain.DocumentRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/documents/%d", documentID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListDocuments returns all documents known to the backend.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.DocumentRecord, error) {
	var recs []domain.DocumentRecord
	if err := c.getJSON(ctx, "/documents", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// DeleteDocument removes a document via DELETE /documents/{id}.
func (c *Client) DeleteDocument(ctx context.Context, documentID int) error {
	return c.delete(ctx, fmt.Sprintf("/documents/%d", documentID))
}

// extractionResponse is the backend's extraction result shape.
type extractionResponse struct {
	ExtractedData json.RawMessage `json:"extracted_data"`
}

// RequestExtraction runs schema extraction against a completed document
// via POST /extract/{id}?schema_id={id}. Extraction is synchronous from
// the client's point of view; there is no polling.
func (c *Client) RequestExtraction(ctx context.Context, documentID, schemaID int) (json.RawMessage, error) {
	resp, err := c.post(ctx, fmt.Sprintf("/extract/%d?schema_id=%d", documentID, schemaID), nil)
	if err != nil {
		return nil, domain.NewExtractionError("extraction request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := decodeDetail(resp.Body)
		return nil, domain.NewExtractionError(
			fmt.Sprintf("extraction rejected (status %d): %s", resp.StatusCode, detail), nil)
	}

	var out extractionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domain.NewExtractionError("decode extraction response", err)
	}
	return out.ExtractedData, nil
}

// createSchemaRequest is the wire shape of POST /schemas.
type createSchemaRequest struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	SchemaDefinition map[string]string `json:"schema_definition"`
}

// CreateSchema registers a validated schema definition with the backend.
func (c *Client) CreateSchema(ctx context.Context, def *domain.SchemaDefinition) (*domain.Schema, error) {
	body, err := json.Marshal(createSchemaRequest{
		Name:             def.Name,
		Description:      def.Description,
		SchemaDefinition: def.DefinitionMap(),
	})
	if err != nil {
		return nil, domain.NewTransferError("encode schema", 0, err)
	}

	resp, err := c.post(ctx, "/schemas", bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewTransferError("create schema request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.transferError(resp, "create schema rejected")
	}

	var schema domain.Schema
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return nil, domain.NewTransferError("decode schema response", 0, err)
	}
	return &schema, nil
}

// ListSchemas returns all schemas known to the backend.
func (c *Client) ListSchemas(ctx context.Context) ([]domain.Schema, error) {
	var schemas []domain.Schema
	if err := c.getJSON(ctx, "/schemas", &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

// DeleteSchema removes a schema via DELETE /schemas/{id}.
func (c *Client) DeleteSchema(ctx context.Context, schemaID int) error {
	return c.delete(ctx, fmt.Sprintf("/schemas/%d", schemaID))
}

func (c *Client) post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return domain.NewTransferError("build request", 0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewTransferError(fmt.Sprintf("GET %s failed", path), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.transferError(resp, fmt.Sprintf("GET %s rejected", path))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewTransferError(fmt.Sprintf("decode %s response", path), 0, err)
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return domain.NewTransferError("build request", 0, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewTransferError(fmt.Sprintf("DELETE %s failed", path), 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.transferError(resp, fmt.Sprintf("DELETE %s rejected", path))
	}
	return nil
}

// transferError builds a transfer error from a non-success response,
// including the backend's detail message when one is present.
func (c *Client) transferError(resp *http.Response, message string) error {
	detail := decodeDetail(resp.Body)
	if detail != "" {
		message = fmt.Sprintf("%s (status %d): %s", message, resp.StatusCode, detail)
	} else {
		message = fmt.Sprintf("%s (status %d)", message, resp.StatusCode)
	}
	return domain.NewTransferError(message, resp.StatusCode, nil)
}

func decodeDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Detail == "" {
		return strings.TrimSpace(string(data))
	}
	return er.Detail
}
