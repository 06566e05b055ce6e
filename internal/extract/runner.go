// Package extract runs schema extraction against completed documents and
// normalizes the outcome for display and export.
package extract

import (
	"context"
	"encoding/json"

	"github.com/pagemonk/pagemonk/internal/domain"
	"github.com/pagemonk/pagemonk/internal/observability"
)

// ExtractionClient is the single backend operation the runner needs.
type ExtractionClient interface {
	RequestExtraction(ctx context.Context, documentID, schemaID int) (json.RawMessage, error)
}

// Result is the normalized outcome of one extraction invocation. Exactly
// one of Data and Error is meaningful, selected by Success. The payload
// shape is whatever the backend returned; it is not validated against
// the schema's declared types.
type Result struct {
	DocumentID int             `json:"document_id"`
	SchemaID   int             `json:"schema_id"`
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Runner invokes extraction and converts every failure into the error
// form of Result. It never propagates an error past its boundary.
type Runner struct {
	client ExtractionClient
	logger *observability.Logger
}

// NewRunner creates an extraction runner.
func NewRunner(client ExtractionClient, logger *observability.Logger) *Runner {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Runner{
		client: client,
		logger: logger.WithComponent("extract"),
	}
}

// Run applies a schema to a completed document. Callers are expected to
// offer only completed documents as candidates; the runner does not
// re-validate status.
func (r *Runner) Run(ctx context.Context, documentID, schemaID int) Result {
	data, err := r.client.RequestExtraction(ctx, documentID, schemaID)
	if err != nil {
		r.logger.Warn().
			Int("document_id", documentID).
			Int("schema_id", schemaID).
			Err(err).
			Msg("extraction failed")
		return Result{
			DocumentID: documentID,
			SchemaID:   schemaID,
			Success:    false,
			Error:      "Extraction failed: " + err.Error(),
		}
	}

	return Result{
		DocumentID: documentID,
		SchemaID:   schemaID,
		Success:    true,
		Data:       data,
	}
}

// Candidates filters a document list to extraction candidates: only
// documents in completed status are offered.
func Candidates(docs []domain.DocumentRecord) []domain.DocumentRecord {
	out := make([]domain.DocumentRecord, 0, len(docs))
	for _, d := range docs {
		if d.Completed() {
			out = append(out, d)
		}
	}
	return out
}
