package main

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/jobscout/internal/common/indexer"
	"github.com/project-tktt/jobscout/internal/domain"
	"github.com/project-tktt/jobscout/internal/module"
	"github.com/project-tktt/jobscout/internal/module/engine"
)

type countingStore struct {
	calls int
}

func (s *countingStore) Upsert(_ context.Context, jobs []*domain.Job) (indexer.UpsertResult, error) {
	s.calls++
	return indexer.UpsertResult{Sent: len(jobs), Inserted: jobs}, nil
}

// interruptingScraper cancels the run after its first source
type interruptingScraper struct {
	cancel context.CancelFunc
	seen   []string
}

func (s *interruptingScraper) Strategy() domain.Strategy {
	return domain.StrategyFeed
}

func (s *interruptingScraper) Scrape(_ context.Context, src domain.Source) ([]*domain.Job, error) {
	s.seen = append(s.seen, src.Name)
	s.cancel()
	job, err := domain.NewJob("Go Developer", src.URL+"/1", src.Name)
	if err != nil {
		return nil, err
	}
	return []*domain.Job{job}, nil
}

func TestSignalContext_CancelledByInterrupt(t *testing.T) {
	ctx, stop := signalContext()
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
}

func TestRunOnce_StopsDispatchingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scraper := &interruptingScraper{cancel: cancel}
	store := &countingStore{}
	eng := engine.New(module.NewRegistry(scraper), store, engine.Options{Concurrency: 1})

	sources := []domain.Source{
		{Name: "Remotive", Strategy: domain.StrategyFeed, URL: "https://remotive.com/feed"},
		{Name: "Jobicy", Strategy: domain.StrategyFeed, URL: "https://jobicy.com/feed"},
		{Name: "HN", Strategy: domain.StrategyFeed, URL: "https://hnrss.org/jobs"},
	}

	summary := runOnce(ctx, eng, sources)
	require.NotNil(t, summary)
	require.Len(t, summary.Reports, 3)

	assert.Equal(t, []string{"Remotive"}, scraper.seen)
	assert.Equal(t, 1, store.calls)
	assert.False(t, summary.Reports[0].Skipped)
	assert.True(t, summary.Reports[1].Skipped)
	assert.True(t, summary.Reports[2].Skipped)
}

func TestRunOnce_NoStore(t *testing.T) {
	eng := engine.New(module.NewRegistry(), nil, engine.Options{})
	assert.Nil(t, runOnce(context.Background(), eng, nil))
}
