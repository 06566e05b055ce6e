// Package domain holds the core types shared by the client, the processing
// orchestrator and the extraction runner: document records, schema
// definitions and the error taxonomy.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the processing status of a document.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusUploaded   Status = "uploaded"
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Time wraps time.Time with tolerant JSON decoding. The backend emits
// timestamps without a timezone offset, which the standard RFC3339
// decoder rejects.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON decodes a backend timestamp, trying each known layout.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse time: %s", s)
}

// MarshalJSON encodes the timestamp as RFC3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}

// DocumentRecord is the backend's view of one submitted document, as
// returned by GET /documents/{id}.
type DocumentRecord struct {
	ID                int    `json:"id"`
	Filename          string `json:"filename"`
	FileSize          int64  `json:"file_size"`
	FileType          string `json:"file_type"`
	UploadDate        Time   `json:"upload_date"`
	ProcessingStatus  Status `json:"processing_status"`
	MarkdownContent   string `json:"markdown_content,omitempty"`
	StructuredContent string `json:"structured_content,omitempty"`
}

// Completed reports whether conversion has finished and converted content
// is available.
func (d *DocumentRecord) Completed() bool {
	return d.ProcessingStatus == StatusCompleted
}
