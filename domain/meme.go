package domain

import (
	"context"
	"time"
)

// Categories is the closed set a meme can be filed under. CategoryAll is a
// filter-only value on feed queries, never stored.
var Categories = []string{"General", "Funny", "Relatable", "Dark Humor", "Anime", "Work Life", "Other"}

const CategoryAll = "All"

// ValidCategory reports whether c can be stored on a meme.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Meme is representing the Meme data struct.
// Likes is denormalized: it must always equal the number of like rows
// referencing the meme, and is only ever mutated inside the like ledger's
// transaction.
type Meme struct {
	ID          int64     // Unique identifier, assigned by the store
	Title       string    // Meme title
	Description string    // Optional description
	Category    string    // One of Categories
	ImageRef    string    // Blob store reference for the image bytes
	Likes       int64     // Denormalized like count, never negative
	CreatedBy   User      // Uploader
	CreatedAt   time.Time // Creation timestamp, the feed's total order
}

// MemeRepository defines the contract for meme data persistence.
type MemeRepository interface {
	// FindMemes retrieves one feed page ordered by created_at descending,
	// ties broken by id descending.
	FindMemes(ctx context.Context, q FeedQuery) ([]Meme, error)

	// GetByID retrieves a single meme by its ID.
	// Returns ErrNotFound if the meme doesn't exist.
	GetByID(ctx context.Context, id int64) (Meme, error)

	// Store creates a new meme and backfills ID and CreatedAt.
	Store(ctx context.Context, m *Meme) error

	// Delete removes a meme and cascade-deletes its like rows.
	// Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id int64) error

	// FindLikeStatus reports which of memeIDs the given user has liked.
	FindLikeStatus(ctx context.Context, memeIDs []int64, userID int64) (map[int64]bool, error)

	// RecountLikes rewrites the denormalized counters of the given memes
	// from their live like rows.
	RecountLikes(ctx context.Context, memeIDs []int64) error

	// Transact runs fn against a transaction-bound LikeStore. All store
	// calls made through it commit or roll back as one unit.
	Transact(ctx context.Context, fn func(LikeStore) error) error
}

// MemeUsecase is the surface exposed to the HTTP layer.
type MemeUsecase interface {
	// GetFeed serves one feed page with per-viewer IsLiked resolved.
	// viewerID <= 0 means anonymous.
	GetFeed(ctx context.Context, page, pageSize int, search, category string, viewerID int64) (FeedPage, error)

	// CreateMeme stores the image bytes, inserts the meme and invalidates
	// the affected first-page cache entries.
	CreateMeme(ctx context.Context, m *Meme, image []byte, ext string) error

	// DeleteMeme removes a meme, its like rows, its image and every cached
	// feed entry. Only the uploader or an admin may delete.
	DeleteMeme(ctx context.Context, id int64, requester User) error

	// GetImage returns the raw image bytes of a meme.
	GetImage(ctx context.Context, id int64) ([]byte, error)

	// OnMemeCreated drops the cached first-page entries a new meme would
	// appear on. Called by CreateMeme; exposed for external writers.
	OnMemeCreated(ctx context.Context, m Meme)

	// OnMemeDeleted drops every cached feed entry that could still
	// reference the meme. Called by DeleteMeme; exposed for external writers.
	OnMemeDeleted(ctx context.Context, memeID int64)
}
