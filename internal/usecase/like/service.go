package like

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/narongrit/meme-hub/domain"
)

// Service is the like ledger. It owns every mutation of the denormalized
// like counter: the counter only ever moves next to a confirmed ledger-row
// mutation inside the same transaction.
type Service struct {
	memeRepo   domain.MemeRepository
	reconciler domain.LikeReconciler
}

var _ domain.LikeLedger = (*Service)(nil)

// NewService will create a new like ledger service object
func NewService(m domain.MemeRepository, r domain.LikeReconciler) *Service {
	return &Service{
		memeRepo:   m,
		reconciler: r,
	}
}

// Toggle flips the like state of (memeID, userID). The flow is insert-first:
// the unique key on the ledger is the single arbiter of the current state,
// so two concurrent toggles from the same "unliked" observation cannot both
// insert. A duplicate-key failure is not an error here, it is the signal
// that the row exists and the caller intends to undo it.
func (s *Service) Toggle(ctx context.Context, memeID, userID int64) (domain.ToggleResult, error) {
	res, err := s.toggleOnce(ctx, memeID, userID)
	if errors.Is(err, domain.ErrConflict) {
		logrus.Warnf("toggle transaction aborted for meme %d user %d, retrying once", memeID, userID)
		res, err = s.toggleOnce(ctx, memeID, userID)
	}
	if err != nil {
		return "", err
	}

	if s.reconciler != nil {
		s.reconciler.Mark(memeID)
	}
	return res, nil
}

func (s *Service) toggleOnce(ctx context.Context, memeID, userID int64) (domain.ToggleResult, error) {
	var res domain.ToggleResult

	err := s.memeRepo.Transact(ctx, func(tx domain.LikeStore) error {
		exists, err := tx.MemeExists(ctx, memeID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}

		err = tx.InsertLike(ctx, memeID, userID)
		if err == nil {
			res = domain.Liked
			return tx.IncrementLikeCount(ctx, memeID, 1)
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}

		rows, err := tx.DeleteLike(ctx, memeID, userID)
		if err != nil {
			return err
		}
		res = domain.Unliked
		if rows > 0 {
			return tx.IncrementLikeCount(ctx, memeID, -1)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return res, nil
}
