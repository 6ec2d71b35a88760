package domain

import (
	"context"
	"time"
)

// Like is a single row of the like ledger. Its identity is the
// (MemeID, UserID) pair, enforced unique by the store. The ledger, not the
// denormalized counter, is the source of truth for like state.
type Like struct {
	MemeID    int64
	UserID    int64
	CreatedAt time.Time
}

// ToggleResult is the outcome of a like toggle.
type ToggleResult string

const (
	Liked   ToggleResult = "liked"
	Unliked ToggleResult = "unliked"
)

// LikeStore holds the ledger primitives that must execute as one atomic
// unit per toggle. Implementations are bound to a single transaction.
type LikeStore interface {
	// MemeExists reports whether the meme row is present.
	MemeExists(ctx context.Context, memeID int64) (bool, error)

	// InsertLike adds a ledger row. Returns ErrDuplicate if the
	// (memeID, userID) pair already exists.
	InsertLike(ctx context.Context, memeID, userID int64) error

	// DeleteLike removes a ledger row and returns the rows affected.
	DeleteLike(ctx context.Context, memeID, userID int64) (int64, error)

	// IncrementLikeCount moves the denormalized counter by delta (+1 or -1),
	// clamped so it never goes below zero.
	IncrementLikeCount(ctx context.Context, memeID, delta int64) error
}

// LikeLedger flips a user's like state on a meme.
type LikeLedger interface {
	// Toggle likes the meme if the user has no live like row, unlikes it
	// otherwise. Returns ErrNotFound for an unknown meme before any mutation.
	Toggle(ctx context.Context, memeID, userID int64) (ToggleResult, error)
}

// LikeReconciler audits denormalized counters against ledger rows in the
// background.
type LikeReconciler interface {
	Start(ctx context.Context)

	// Mark queues a meme for counter reconciliation. Never blocks.
	Mark(memeID int64)
}
