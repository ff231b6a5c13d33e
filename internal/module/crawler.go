package module

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/project-tktt/jobscout/internal/domain"
)

var (
	ErrNoScraper     = errors.New("no scraper registered for strategy")
	ErrScraperPanic  = errors.New("scraper panicked")
	ErrInvalidSource = errors.New("invalid source")
)

// Scraper is the common interface for all scraping strategies
type Scraper interface {
	// Scrape fetches and normalizes the jobs of one source. On failure it
	// returns no jobs at all, never a partial batch.
	Scrape(ctx context.Context, src domain.Source) ([]*domain.Job, error)
	// Strategy returns the strategy this scraper handles
	Strategy() domain.Strategy
}

// Registry maps strategies to their scraper
type Registry struct {
	scrapers map[domain.Strategy]Scraper
}

// NewRegistry creates a registry; a later scraper for the same strategy
// replaces an earlier one
func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{scrapers: make(map[domain.Strategy]Scraper, len(scrapers))}
	for _, s := range scrapers {
		r.Register(s)
	}
	return r
}

// Register adds or replaces the scraper for s.Strategy()
func (r *Registry) Register(s Scraper) {
	r.scrapers[s.Strategy()] = s
}

// Lookup returns the scraper for a strategy
func (r *Registry) Lookup(strategy domain.Strategy) (Scraper, error) {
	s, ok := r.scrapers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoScraper, strategy)
	}
	return s, nil
}

// Result is the outcome of scraping one source
type Result struct {
	Source domain.Source
	Jobs   []*domain.Job
	Err    error
}

// OK reports whether the scrape succeeded
func (r Result) OK() bool {
	return r.Err == nil
}

// Run scrapes one source and turns every failure, including a panic inside
// the scraper, into a failed Result
func Run(ctx context.Context, s Scraper, src domain.Source) (res Result) {
	res.Source = src

	defer func() {
		if p := recover(); p != nil {
			res.Jobs = nil
			res.Err = fmt.Errorf("%w: %v\n%s", ErrScraperPanic, p, debug.Stack())
		}
	}()

	if err := src.Validate(); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrInvalidSource, err)
		return res
	}

	jobs, err := s.Scrape(ctx, src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Jobs = jobs
	return res
}
