package indexer

import (
	"context"
	"log"

	"github.com/project-tktt/jobscout/internal/domain"
)

// Save persists a batch and never fails the caller: store errors are logged
// and reported as zero inserts. Records without a link are dropped, and
// links the seen cache already knows are counted as duplicates without a
// round trip to the store. seen may be nil.
func Save(ctx context.Context, store Store, seen SeenFilter, jobs []*domain.Job) UpsertResult {
	keyed := make([]*domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if job == nil || !job.HasLink() {
			continue
		}
		keyed = append(keyed, job)
	}
	if dropped := len(jobs) - len(keyed); dropped > 0 {
		log.Printf("[Store] Dropped %d jobs without a link", dropped)
	}

	res := UpsertResult{Sent: len(keyed)}
	if len(keyed) == 0 {
		return res
	}

	pending := keyed
	if seen != nil {
		var cached int
		pending, cached = seen.FilterUnseen(ctx, keyed)
		if cached > 0 {
			log.Printf("[Store] %d jobs already seen, skipping", cached)
		}
	}

	if len(pending) > 0 {
		stored, err := store.Upsert(ctx, pending)
		if err != nil {
			log.Printf("[Store] Error saving batch: %v", err)
		}
		res.Inserted = stored.Inserted
		res.Failed = stored.Failed

		if seen != nil && err == nil {
			// failed rows stay unmarked so the next run retries them
			seen.MarkSeen(ctx, storedOrExisting(pending, stored))
		}
	}

	log.Printf("[Store] Saved %d new jobs, skipped %d duplicates", len(res.Inserted), res.Duplicates())
	return res
}

// storedOrExisting returns the rows known to be in the store. When some rows
// failed, duplicates cannot be told apart from failures, so only the
// inserted rows count.
func storedOrExisting(sent []*domain.Job, res UpsertResult) []*domain.Job {
	if res.Failed > 0 {
		return res.Inserted
	}
	return sent
}
