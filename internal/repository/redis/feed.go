package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/narongrit/meme-hub/domain"
)

const (
	// KeyFeedAll matches every cached feed page. Individual entries use
	// domain.FeedQuery.CacheKey, which this pattern and KeyFeedFirstPage
	// depend on.
	KeyFeedAll = "feed:v1:*"
	// KeyFeedFirstPage matches unfiltered first-page entries of one
	// category across all page sizes.
	KeyFeedFirstPage = "feed:v1:p1:n*:q:c%s"

	// The default feed is hit far more often than searches, and search
	// cardinality is unbounded, so searches get the short TTL.
	defaultTTL = 60 * time.Second
	searchTTL  = 15 * time.Second

	scanBatch = 100
)

type feedCache struct {
	client *redis.Client
}

var _ domain.FeedCache = (*feedCache)(nil)

func NewFeedCache(client *redis.Client) *feedCache {
	return &feedCache{
		client,
	}
}

func (c *feedCache) GetPage(ctx context.Context, q domain.FeedQuery) (res domain.FeedPage, err error) {
	data, err := c.client.Get(ctx, q.CacheKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FeedPage{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.FeedPage{}, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.FeedPage{}, err
	}
	return
}

func (c *feedCache) SetPage(ctx context.Context, q domain.FeedQuery, page domain.FeedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	ttl := defaultTTL
	if q.Search != "" {
		ttl = searchTTL
	}
	return c.client.Set(ctx, q.CacheKey(), data, ttl).Err()
}

func (c *feedCache) InvalidateFirstPages(ctx context.Context, categories ...string) error {
	for _, cat := range categories {
		if err := c.deletePattern(ctx, fmt.Sprintf(KeyFeedFirstPage, cat)); err != nil {
			return err
		}
	}
	return nil
}

func (c *feedCache) InvalidateAll(ctx context.Context) error {
	return c.deletePattern(ctx, KeyFeedAll)
}

func (c *feedCache) deletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}
