package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagemonk/pagemonk/internal/domain"
)

// Item is the client-local tracking record for one submitted file. Its ID
// is synthetic and assigned at submission time; DocumentID is the
// backend's identifier and stays zero until the upload is acknowledged.
// The two are never conflated.
type Item struct {
	ID          uuid.UUID
	Filename    string
	Path        string
	Size        int64
	Status      domain.Status
	Progress    int // upload progress percentage, 0-100
	DocumentID  int
	Content     string // converted content, set only when Status is completed
	Err         string // human-readable failure message, set only when Status is failed
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether the item reached a state it never leaves.
func (it Item) Terminal() bool {
	return it.Status.Terminal()
}
