package indexer

import (
	"context"

	"github.com/project-tktt/jobscout/internal/domain"
)

// Store persists jobs keyed by their canonical link
type Store interface {
	// Upsert inserts jobs whose link is not stored yet and leaves existing
	// rows untouched
	Upsert(ctx context.Context, jobs []*domain.Job) (UpsertResult, error)
}

// Mirror receives newly stored jobs, e.g. a search index
type Mirror interface {
	BulkCreate(ctx context.Context, jobs []*domain.Job) (int, error)
}

// SeenFilter is a cache of links already known to be stored
type SeenFilter interface {
	FilterUnseen(ctx context.Context, jobs []*domain.Job) (unseen []*domain.Job, seen int)
	MarkSeen(ctx context.Context, jobs []*domain.Job)
}

// UpsertResult reports what happened to one batch
type UpsertResult struct {
	Sent     int
	Inserted []*domain.Job
	// Failed rows are included in Duplicates; they were not created
	Failed int
}

// Duplicates is the number of records sent that did not create a row
func (r UpsertResult) Duplicates() int {
	return r.Sent - len(r.Inserted)
}
