package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-tktt/jobscout/internal/domain"
)

// Deduplicator remembers links already stored using Redis.
// Postgres stays the source of truth: a Redis failure only means more rows
// reach the store, where ON CONFLICT skips them.
type Deduplicator struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
}

// NewDeduplicator creates a new Redis-based deduplicator
func NewDeduplicator(client *redis.Client, prefix string, defaultTTL time.Duration) *Deduplicator {
	if prefix == "" {
		prefix = "seen"
	}
	if defaultTTL == 0 {
		defaultTTL = 24 * time.Hour * 30 // 30 days default
	}
	return &Deduplicator{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

// FilterUnseen returns the jobs whose link is not cached, in input order,
// and how many were dropped. On a Redis error every job counts as unseen.
func (d *Deduplicator) FilterUnseen(ctx context.Context, jobs []*domain.Job) ([]*domain.Job, int) {
	if len(jobs) == 0 {
		return jobs, 0
	}

	pipe := d.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(jobs))
	for i, job := range jobs {
		cmds[i] = pipe.Exists(ctx, d.makeKey(job.Link))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Dedup] redis exists: %v", err)
		return jobs, 0
	}

	unseen := make([]*domain.Job, 0, len(jobs))
	for i, job := range jobs {
		if cmds[i].Val() > 0 {
			continue
		}
		unseen = append(unseen, job)
	}
	return unseen, len(jobs) - len(unseen)
}

// MarkSeen records the links of jobs known to be stored
func (d *Deduplicator) MarkSeen(ctx context.Context, jobs []*domain.Job) {
	if len(jobs) == 0 {
		return
	}

	now := time.Now().Unix()
	pipe := d.client.Pipeline()
	for _, job := range jobs {
		pipe.Set(ctx, d.makeKey(job.Link), now, d.defaultTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Dedup] redis set: %v", err)
	}
}

func (d *Deduplicator) makeKey(link string) string {
	return fmt.Sprintf("%s:%s", d.prefix, d.hashLink(link))
}

func (d *Deduplicator) hashLink(link string) string {
	h := sha256.Sum256([]byte(link))
	return hex.EncodeToString(h[:16]) // First 16 bytes (32 hex chars)
}
