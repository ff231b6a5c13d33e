package engine

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/project-tktt/jobscout/internal/common/indexer"
	"github.com/project-tktt/jobscout/internal/domain"
	"github.com/project-tktt/jobscout/internal/module"
)

var ErrNoStore = errors.New("no store configured")

// Publisher announces newly stored jobs
type Publisher interface {
	PublishBatch(ctx context.Context, jobs []*domain.Job) error
}

// Options configures the optional parts of a run
type Options struct {
	Seen      indexer.SeenFilter
	Publisher Publisher
	Mirror    indexer.Mirror
	// Concurrency > 1 scrapes that many sources at once
	Concurrency int
	// DedupSources processes sources with the same strategy and URL once
	DedupSources bool
}

// Engine runs every configured source through its scraper and stores the
// results
type Engine struct {
	registry *module.Registry
	store    indexer.Store
	opts     Options
}

// New creates an engine
func New(registry *module.Registry, store indexer.Store, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		registry: registry,
		store:    store,
		opts:     opts,
	}
}

// SourceReport is the outcome of one source
type SourceReport struct {
	Source     domain.Source
	Found      int
	Inserted   int
	Duplicates int
	Skipped    bool
	Err        error
}

// Summary holds one report per processed source, in source-list order
type Summary struct {
	Reports []SourceReport
}

// Totals aggregates a summary
type Totals struct {
	Sources    int
	Failed     int
	Skipped    int
	Found      int
	Inserted   int
	Duplicates int
}

func (s *Summary) Totals() Totals {
	t := Totals{Sources: len(s.Reports)}
	for _, r := range s.Reports {
		switch {
		case r.Skipped:
			t.Skipped++
		case r.Err != nil:
			t.Failed++
		}
		t.Found += r.Found
		t.Inserted += r.Inserted
		t.Duplicates += r.Duplicates
	}
	return t
}

// Run processes sources. A failing source never stops the others; only a
// missing store or a cancelled context ends the run early.
func (e *Engine) Run(ctx context.Context, sources []domain.Source) (*Summary, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}

	if e.opts.DedupSources {
		sources = dedupeSources(sources)
	}

	log.Printf("[Engine] Starting run over %d sources", len(sources))

	reports := make([]SourceReport, len(sources))
	for i, src := range sources {
		reports[i] = SourceReport{Source: src}
	}

	if e.opts.Concurrency == 1 {
		for i, src := range sources {
			if err := ctx.Err(); err != nil {
				markCancelled(reports[i:], err)
				break
			}
			reports[i] = e.runSource(ctx, src)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.opts.Concurrency)
		for i, src := range sources {
			if err := ctx.Err(); err != nil {
				markCancelled(reports[i:], err)
				break
			}
			g.Go(func() error {
				reports[i] = e.runSource(ctx, src)
				return nil
			})
		}
		g.Wait()
	}

	summary := &Summary{Reports: reports}
	t := summary.Totals()
	log.Printf("[Engine] Run finished: %d sources, %d failed, %d skipped, %d found, %d new, %d duplicates",
		t.Sources, t.Failed, t.Skipped, t.Found, t.Inserted, t.Duplicates)

	return summary, ctx.Err()
}

func (e *Engine) runSource(ctx context.Context, src domain.Source) SourceReport {
	report := SourceReport{Source: src}
	log.Printf("[Engine] Processing source: %s (%s)", src.Name, src.Strategy)

	if err := src.Validate(); err != nil {
		log.Printf("[Engine] Invalid source %q, skipping: %v", src.Name, err)
		report.Skipped = true
		report.Err = err
		return report
	}

	scraper, err := e.registry.Lookup(src.Strategy)
	if err != nil {
		log.Printf("[Engine] Unknown strategy for %s, skipping: %v", src.Name, err)
		report.Skipped = true
		report.Err = err
		return report
	}

	res := module.Run(ctx, scraper, src)
	if !res.OK() {
		log.Printf("[Engine] Error scraping %s: %v", src.Name, res.Err)
		report.Err = res.Err
		return report
	}

	report.Found = len(res.Jobs)
	if report.Found == 0 {
		log.Printf("[Engine] No jobs found for %s", src.Name)
		return report
	}
	log.Printf("[Engine] Found %d jobs from %s", report.Found, src.Name)

	saved := indexer.Save(ctx, e.store, e.opts.Seen, res.Jobs)
	report.Inserted = len(saved.Inserted)
	report.Duplicates = saved.Duplicates()

	e.announce(ctx, src, saved.Inserted)
	return report
}

// announce hands newly stored jobs to the queue and the search mirror
func (e *Engine) announce(ctx context.Context, src domain.Source, jobs []*domain.Job) {
	if len(jobs) == 0 {
		return
	}

	if e.opts.Publisher != nil {
		if err := e.opts.Publisher.PublishBatch(ctx, jobs); err != nil {
			log.Printf("[Engine] Publish error for %s: %v", src.Name, err)
		}
	}

	if e.opts.Mirror != nil {
		created, err := e.opts.Mirror.BulkCreate(ctx, jobs)
		if err != nil {
			log.Printf("[Engine] Search mirror error for %s: %v", src.Name, err)
			return
		}
		log.Printf("[Engine] Mirrored %d jobs from %s", created, src.Name)
	}
}

func markCancelled(reports []SourceReport, err error) {
	for i := range reports {
		reports[i].Skipped = true
		reports[i].Err = err
	}
}

// dedupeSources keeps the first descriptor per strategy and URL
func dedupeSources(sources []domain.Source) []domain.Source {
	seen := make(map[string]bool, len(sources))
	out := make([]domain.Source, 0, len(sources))
	for _, src := range sources {
		id := src.Identity()
		if seen[id] {
			log.Printf("[Engine] Duplicate source %q (%s), skipping", src.Name, id)
			continue
		}
		seen[id] = true
		out = append(out, src)
	}
	return out
}
