package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/narongrit/meme-hub/domain"
)

// reconcileLikesWorker periodically rewrites the denormalized like counters
// of recently toggled memes from their ledger rows. The ledger keeps both
// sides consistent transactionally; this loop is the audit that bounds any
// drift a crash or manual intervention could introduce.
type reconcileLikesWorker struct {
	memeRepo domain.MemeRepository
	ch       chan int64
}

var _ domain.LikeReconciler = (*reconcileLikesWorker)(nil)

func NewReconcileLikesWorker(m domain.MemeRepository) *reconcileLikesWorker {
	return &reconcileLikesWorker{
		memeRepo: m,
		ch:       make(chan int64, 1024),
	}
}

// Mark queues a meme for reconciliation, dropping the mark if the buffer is
// full. A dropped mark only delays the audit, never correctness.
func (w reconcileLikesWorker) Mark(memeID int64) {
	select {
	case w.ch <- memeID:
	default:
		logrus.Info("ReconcileLikesWorker's channel is full, mark dropped")
	}
}

func (w reconcileLikesWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	const batchSize = 100
	batch := make([]int64, 0, batchSize)
	for {
		select {
		case id := <-w.ch:
			batch = append(batch, id)
			if len(batch) == batchSize {
				w.flush(ctx, batch)
				batch = make([]int64, 0, batchSize)
			}
		case <-ticker.C:
			w.flush(ctx, batch)
			batch = make([]int64, 0)
		case <-ctx.Done():
			logrus.Info("shutting down ReconcileLikesWorker, flushing remaining marks...")
			w.flush(context.Background(), batch)
			return
		}
	}
}

func (w reconcileLikesWorker) flush(ctx context.Context, batch []int64) {
	if len(batch) == 0 {
		return
	}

	seen := make(map[int64]bool, len(batch))
	ids := make([]int64, 0, len(batch))
	for _, id := range batch {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if err := w.memeRepo.RecountLikes(ctx, ids); err != nil {
		logrus.Errorf("failed to reconcile like counters: %v", err)
	}
}
