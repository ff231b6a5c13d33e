package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/project-tktt/jobscout/internal/classifier"
	"github.com/project-tktt/jobscout/internal/common/cleaner"
	"github.com/project-tktt/jobscout/internal/common/dedup"
	"github.com/project-tktt/jobscout/internal/common/indexer"
	"github.com/project-tktt/jobscout/internal/common/normalizer"
	"github.com/project-tktt/jobscout/internal/config"
	"github.com/project-tktt/jobscout/internal/domain"
	"github.com/project-tktt/jobscout/internal/module"
	"github.com/project-tktt/jobscout/internal/module/browser"
	"github.com/project-tktt/jobscout/internal/module/engine"
	"github.com/project-tktt/jobscout/internal/module/feed"
	"github.com/project-tktt/jobscout/internal/queue"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting JobScout engine")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	sources, err := config.LoadSources(cfg.SourcesFile)
	if err != nil {
		log.Fatalf("Load sources failed: %v", err)
	}
	log.Printf("Loaded %d sources from %s", len(sources), cfg.SourcesFile)

	tables, err := classifier.LoadTables(cfg.ClassifierFile)
	if err != nil {
		log.Fatalf("Load classifier tables failed: %v", err)
	}

	// SIGINT/SIGTERM cancel ctx in both modes; sources not started yet are skipped
	ctx, stop := signalContext()
	defer stop()

	// Without a store nothing can be saved, so this aborts the run
	pgIndexer, err := indexer.NewPostgresIndexer(cfg.Postgres.ConnectionString, cfg.Postgres.TableName)
	if err != nil {
		log.Fatalf("PostgreSQL connection failed: %v", err)
	}
	defer pgIndexer.Close()
	log.Println("PostgreSQL connected")

	opts := engine.Options{
		Concurrency:  cfg.Engine.Concurrency,
		DedupSources: cfg.Engine.DedupSources,
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis unavailable, seen cache and queue disabled: %v", err)
		} else {
			log.Println("Redis connected")
			opts.Seen = dedup.NewDeduplicator(rdb, cfg.Redis.SeenPrefix, cfg.Redis.SeenTTL)
			opts.Publisher = queue.NewPublisher(rdb, cfg.Redis.JobQueue)
		}
	}

	if cfg.Elasticsearch.Enabled() {
		esIndexer, err := indexer.NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			log.Printf("Warning: Elasticsearch unavailable, search mirror disabled: %v", err)
		} else {
			log.Println("Elasticsearch connected")
			if err := esIndexer.EnsureIndex(ctx); err != nil {
				log.Printf("Warning: ensure index failed: %v", err)
			}
			opts.Mirror = esIndexer
		}
	}

	// Initialize components
	norm := normalizer.NewNormalizer(classifier.New(tables), cleaner.NewCleaner())

	registry := module.NewRegistry(
		feed.NewScraper(norm, feed.Config{
			UserAgent: cfg.Feed.UserAgent,
			Timeout:   cfg.Feed.Timeout,
			ProxyURL:  cfg.Feed.ProxyURL,
		}),
		browser.NewScraper(newRenderer(cfg), norm, browser.Config{
			NavigationTimeout: cfg.Browser.NavigationTimeout,
			SelectorTimeout:   cfg.Browser.SelectorTimeout,
			MaxCards:          cfg.Browser.MaxCards,
		}),
	)

	eng := engine.New(registry, pgIndexer, opts)

	if cfg.Engine.Schedule == "" {
		runOnce(ctx, eng, sources)
		return
	}

	runScheduled(ctx, cfg.Engine.Schedule, eng, sources)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newRenderer(cfg *config.Config) browser.Renderer {
	if cfg.Browser.Renderer == "static" {
		return browser.NewStaticRenderer(cfg.Feed.UserAgent)
	}
	return browser.NewPlaywrightRenderer(cfg.Browser.Headless)
}

func runOnce(ctx context.Context, eng *engine.Engine, sources []domain.Source) *engine.Summary {
	summary, err := eng.Run(ctx, sources)
	if err != nil {
		log.Printf("Engine run error: %v", err)
		return nil
	}

	for _, r := range summary.Reports {
		if r.Err != nil {
			log.Printf("  %s: %v", r.Source.Name, r.Err)
		}
	}
	if ctx.Err() != nil {
		log.Println("Engine run interrupted")
		return summary
	}
	log.Println("Engine run complete")
	return summary
}

// runScheduled runs immediately, then on every cron tick until ctx is
// cancelled. Overlapping ticks are skipped.
func runScheduled(ctx context.Context, spec string, eng *engine.Engine, sources []domain.Source) {
	// the startup run and the ticks share one wrapper so they never overlap
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).
		Then(cron.FuncJob(func() { runOnce(ctx, eng, sources) }))

	c := cron.New()
	if _, err := c.AddJob(spec, job); err != nil {
		log.Fatalf("Invalid ENGINE_SCHEDULE %q: %v", spec, err)
	}

	c.Start()
	log.Printf("Scheduler started, spec: %s", spec)

	// Run immediately on startup
	first := make(chan struct{})
	go func() {
		defer close(first)
		job.Run()
	}()

	// Handle graceful shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping...")

	// Stop returns a context done once running jobs finish
	stopped := c.Stop()
	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		<-first
		close(done)
	}()

	select {
	case <-done:
		log.Println("Graceful shutdown complete")
	case <-time.After(30 * time.Second):
		log.Println("Shutdown timeout, forcing exit")
	}
}
