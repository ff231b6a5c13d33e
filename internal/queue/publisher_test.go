package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/jobscout/internal/domain"
)

func TestPublisher_PublishBatch(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewPublisher(client, "")
	ctx := context.Background()

	a, err := domain.NewJob("Go Developer", "https://example.com/a", "Remotive")
	require.NoError(t, err)
	b, err := domain.NewJob("Designer", "https://example.com/b", "Remotive")
	require.NoError(t, err)

	require.NoError(t, p.PublishBatch(ctx, []*domain.Job{a, b}))
	require.NoError(t, p.PublishBatch(ctx, nil))

	// LPUSH: the oldest job sits at the tail
	items, err := mr.List("jobs:new")
	require.NoError(t, err)
	require.Len(t, items, 2)

	var got domain.Job
	require.NoError(t, json.Unmarshal([]byte(items[1]), &got))
	assert.Equal(t, "https://example.com/a", got.Link)
	assert.Equal(t, "Go Developer", got.Title)
}

func TestPublisher_CustomQueueAndRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewPublisher(client, "custom:queue")
	job, err := domain.NewJob("SRE", "https://example.com/sre", "HN")
	require.NoError(t, err)

	require.NoError(t, p.PublishBatch(context.Background(), []*domain.Job{job}))
	items, err := mr.List("custom:queue")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	mr.Close()
	assert.Error(t, p.PublishBatch(context.Background(), []*domain.Job{job}))
}
