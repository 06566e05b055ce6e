package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemonk/pagemonk/internal/domain"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestClient_Upload(t *testing.T) {
	var gotFilename string
	var gotBytes int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload", r.URL.Path)

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFilename = hdr.Filename
		gotBytes, err = io.Copy(io.Discard, f)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":                7,
			"filename":          hdr.Filename,
			"file_size":         gotBytes,
			"file_type":         "application/pdf",
			"processing_status": "uploaded",
		})
	}))
	defer srv.Close()

	path := writeTempFile(t, "invoice.pdf", 64*1024)
	cl := New(srv.URL, nil)

	var progress []int
	rec, err := cl.Upload(context.Background(), path, func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, "invoice.pdf", gotFilename)
	assert.Equal(t, int64(64*1024), gotBytes)

	// Progress is monotonically non-decreasing, bounded in [0,100],
	// and reaches 100 once the server acknowledges
	require.NotEmpty(t, progress)
	for i, pct := range progress {
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		if i > 0 {
			assert.GreaterOrEqual(t, pct, progress[i-1])
		}
	}
	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestClient_Upload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "storage unavailable"})
	}))
	defer srv.Close()

	path := writeTempFile(t, "invoice.pdf", 1024)
	cl := New(srv.URL, nil)

	_, err := cl.Upload(context.Background(), path, nil)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTransfer))
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestClient_Upload_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	path := writeTempFile(t, "invoice.pdf", 1024)
	cl := New(srv.URL, nil)

	_, err := cl.Upload(context.Background(), path, nil)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTransfer))
}

func TestClient_RequestConversion(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"message": "Document processed"})
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	require.NoError(t, cl.RequestConversion(context.Background(), 42))
	assert.Equal(t, "/parse/42", gotPath)
}

func TestClient_RequestConversion_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Document not found"})
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	err := cl.RequestConversion(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTransfer))
	assert.Contains(t, err.Error(), "Document not found")
}

func TestClient_GetDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents/7", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"id":                7,
			"filename":          "invoice.pdf",
			"processing_status": "completed",
			"markdown_content":  "# Invoice\n...",
			"upload_date":       "2024-01-01T10:00:00",
		})
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	rec, err := cl.GetDocument(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, rec.ProcessingStatus)
	assert.Equal(t, "# Invoice\n...", rec.MarkdownContent)
}

func TestClient_RequestExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract/7", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("schema_id"))
		json.NewEncoder(w).Encode(map[string]any{
			"extracted_data": map[string]any{"total": 123.45, "date": "2024-01-01"},
		})
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	data, err := cl.RequestExtraction(context.Background(), 7, 5)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 123.45, got["total"])
	assert.Equal(t, "2024-01-01", got["date"])
}

func TestClient_RequestExtraction_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Document not yet processed"})
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	_, err := cl.RequestExtraction(context.Background(), 7, 5)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindExtraction))
	assert.Contains(t, err.Error(), "Document not yet processed")
}

func TestClient_CreateSchema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schemas", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Invoice", req["name"])

		def, ok := req["schema_definition"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "number", def["total"])
		assert.Equal(t, "date", def["date"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":                3,
			"name":              "Invoice",
			"description":       "invoice fields",
			"schema_definition": def,
			"is_active":         true,
		})
	}))
	defer srv.Close()

	def, err := domain.NewSchemaDefinition("Invoice", "invoice fields", []domain.FieldDefinition{
		{Name: "total", Type: domain.FieldTypeNumber},
		{Name: "date", Type: domain.FieldTypeDate},
	})
	require.NoError(t, err)

	cl := New(srv.URL, nil)
	schema, err := cl.CreateSchema(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, 3, schema.ID)
	assert.Equal(t, 2, schema.FieldCount())
}

func TestClient_ListAndDelete(t *testing.T) {
	var deleted []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/documents":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "filename": "a.pdf", "processing_status": "completed"},
				{"id": 2, "filename": "b.pdf", "processing_status": "processing"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/schemas":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 3, "name": "Invoice", "schema_definition": map[string]string{"total": "number"}},
			})
		case r.Method == http.MethodDelete:
			deleted = append(deleted, r.URL.Path)
			json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cl := New(srv.URL, nil)
	ctx := context.Background()

	docs, err := cl.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Filename)

	schemas, err := cl.ListSchemas(ctx)
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, 1, schemas[0].FieldCount())

	require.NoError(t, cl.DeleteDocument(ctx, 1))
	require.NoError(t, cl.DeleteSchema(ctx, 3))
	assert.Equal(t, []string{"/documents/1", "/schemas/3"}, deleted)
}
