package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// FeedQuery is the normalized key of one feed page. It deliberately carries
// no viewer identity: cached pages are shared between viewers.
type FeedQuery struct {
	Page     int    // 1-based
	PageSize int    // 1..MaxPageSize
	Search   string // trimmed, empty means unfiltered
	Category string // one of Categories, or CategoryAll
}

// NormalizeFeedQuery clamps and canonicalizes raw request parameters so that
// equivalent requests share one cache entry.
func NormalizeFeedQuery(page, pageSize int, search, category string) FeedQuery {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	category = strings.TrimSpace(category)
	if category == "" || (!ValidCategory(category) && category != CategoryAll) {
		category = CategoryAll
	}
	return FeedQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		Category: category,
	}
}

// CacheKey renders the query as a redis key. The layout is relied on by the
// cache's pattern-based invalidation.
func (q FeedQuery) CacheKey() string {
	return fmt.Sprintf("feed:v1:p%d:n%d:q%s:c%s", q.Page, q.PageSize, q.Search, q.Category)
}

// Offset returns the store offset for the page.
func (q FeedQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// FeedItem is one meme summary on a feed page. IsLiked is viewer-specific
// and excluded from serialization so it can never leak into a shared cache
// entry; it is joined in after the cache read.
type FeedItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	ImageRef  string    `json:"image_ref"`
	Likes     int64     `json:"likes"`
	Uploader  string    `json:"uploader"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	IsLiked   bool      `json:"-"`
}

// FeedPage is the viewer-agnostic result of one feed query.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	HasMore bool       `json:"has_more"`
}

// FeedCache caches serialized feed pages for a bounded time. The cache is
// best-effort: callers must treat every error as a miss, never as a request
// failure.
type FeedCache interface {
	// GetPage returns the cached page for q. Returns ErrCacheMiss when the
	// entry is absent or expired.
	GetPage(ctx context.Context, q FeedQuery) (FeedPage, error)

	// SetPage stores the page under q's key, replacing any previous entry
	// wholesale. The TTL depends on whether the query is search-filtered.
	SetPage(ctx context.Context, q FeedQuery, page FeedPage) error

	// InvalidateFirstPages drops unfiltered first-page entries for the given
	// categories, any page size.
	InvalidateFirstPages(ctx context.Context, categories ...string) error

	// InvalidateAll drops every cached feed page.
	InvalidateAll(ctx context.Context) error
}
