package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStatus_Terminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusQueued, false},
		{StatusUploaded, false},
		{StatusUploading, false},
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentRecord_Decode(t *testing.T) {
	// The backend emits timestamps without a timezone offset
	body := `{
		"id": 7,
		"filename": "invoice.pdf",
		"file_size": 2097152,
		"file_type": "application/pdf",
		"upload_date": "2024-01-01T10:30:00.123456",
		"processing_status": "completed",
		"markdown_content": "# Invoice\n..."
	}`

	var rec DocumentRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		t.Fatalf("decode document record: %v", err)
	}

	if rec.ID != 7 {
		t.Errorf("expected id 7, got %d", rec.ID)
	}
	if !rec.Completed() {
		t.Error("expected record to be completed")
	}
	if rec.MarkdownContent != "# Invoice\n..." {
		t.Errorf("unexpected content: %q", rec.MarkdownContent)
	}
	if rec.UploadDate.IsZero() {
		t.Error("expected upload date to be parsed")
	}
	if rec.UploadDate.Year() != 2024 {
		t.Errorf("expected year 2024, got %d", rec.UploadDate.Year())
	}
}

func TestTime_UnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"rfc3339", `"2024-01-01T10:30:00Z"`, true},
		{"no offset", `"2024-01-01T10:30:00"`, true},
		{"space separator", `"2024-01-01 10:30:00"`, true},
		{"null", `null`, true},
		{"garbage", `"yesterday"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			err := json.Unmarshal([]byte(tt.value), &ts)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("connection refused")
	err := NewTransferError("upload request failed", 0, base)

	if !IsKind(err, KindTransfer) {
		t.Error("expected transfer kind")
	}
	if IsKind(err, KindExtraction) {
		t.Error("kind should not match extraction")
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to be reachable")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if e.Message != "upload request failed" {
		t.Errorf("unexpected message: %q", e.Message)
	}
}
