package mysql

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/narongrit/meme-hub/domain"
	"github.com/narongrit/meme-hub/internal/repository/mysql/model"
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

type memeRepository struct {
	DB *gorm.DB
}

var _ domain.MemeRepository = (*memeRepository)(nil)

// NewMemeRepository will create an implementation of domain.MemeRepository
func NewMemeRepository(db *gorm.DB) *memeRepository {
	return &memeRepository{db}
}

func (m *memeRepository) FindMemes(ctx context.Context, q domain.FeedQuery) (res []domain.Meme, err error) {
	var memes []model.Meme

	tx := m.DB.WithContext(ctx).Model(&model.Meme{})
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("title LIKE ? OR category LIKE ?", pattern, pattern)
	}
	if q.Category != domain.CategoryAll {
		tx = tx.Where("category = ?", q.Category)
	}

	err = tx.Order("created_at DESC, id DESC").
		Limit(q.PageSize).
		Offset(q.Offset()).
		Find(&memes).
		Error
	if err != nil {
		return nil, err
	}

	res = make([]domain.Meme, len(memes))
	for i := range memes {
		res[i] = memes[i].ToDomain()
	}
	return res, nil
}

func (m *memeRepository) GetByID(ctx context.Context, id int64) (res domain.Meme, err error) {
	var meme model.Meme
	err = m.DB.WithContext(ctx).First(&meme, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, domain.ErrNotFound
	}
	if err != nil {
		return res, err
	}
	res = meme.ToDomain()
	return
}

func (m *memeRepository) Store(ctx context.Context, meme *domain.Meme) error {
	memeModel := model.NewMemeFromDomain(meme)
	result := m.DB.WithContext(ctx).Create(&memeModel)
	if result.Error != nil {
		return result.Error
	}
	meme.ID = memeModel.ID
	meme.CreatedAt = memeModel.CreatedAt
	return nil
}

// Delete removes the meme and its like rows in one transaction so the ledger
// never holds rows for a meme that no longer exists.
func (m *memeRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meme_id = ?", id).Delete(&model.MemeLike{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Meme{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (m *memeRepository) FindLikeStatus(ctx context.Context, memeIDs []int64, userID int64) (map[int64]bool, error) {
	res := make(map[int64]bool, len(memeIDs))
	if len(memeIDs) == 0 || userID <= 0 {
		return res, nil
	}

	var liked []int64
	err := m.DB.WithContext(ctx).
		Model(&model.MemeLike{}).
		Where("user_id = ? AND meme_id IN ?", userID, memeIDs).
		Pluck("meme_id", &liked).
		Error
	if err != nil {
		return nil, err
	}

	for _, id := range liked {
		res[id] = true
	}
	return res, nil
}

// RecountLikes rewrites the denormalized counters from the ledger rows.
func (m *memeRepository) RecountLikes(ctx context.Context, memeIDs []int64) error {
	if len(memeIDs) == 0 {
		return nil
	}
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range memeIDs {
			var realCount int64
			if err := tx.Model(&model.MemeLike{}).
				Where("meme_id = ?", id).
				Count(&realCount).Error; err != nil {
				return err
			}

			if err := tx.Model(&model.Meme{}).
				Where("id = ?", id).
				UpdateColumn("likes", realCount).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *memeRepository) Transact(ctx context.Context, fn func(domain.LikeStore) error) error {
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&likeStore{tx})
	})
	if isRetryable(err) {
		return domain.ErrConflict
	}
	return err
}

// likeStore is bound to a single open transaction.
type likeStore struct {
	tx *gorm.DB
}

var _ domain.LikeStore = (*likeStore)(nil)

func (s *likeStore) MemeExists(ctx context.Context, memeID int64) (bool, error) {
	var count int64
	err := s.tx.WithContext(ctx).
		Model(&model.Meme{}).
		Where("id = ?", memeID).
		Count(&count).
		Error
	return count > 0, err
}

func (s *likeStore) InsertLike(ctx context.Context, memeID, userID int64) error {
	like := &model.MemeLike{
		MemeID: memeID,
		UserID: userID,
	}
	err := s.tx.WithContext(ctx).Create(like).Error
	if isDuplicate(err) {
		return domain.ErrDuplicate
	}
	return err
}

func (s *likeStore) DeleteLike(ctx context.Context, memeID, userID int64) (int64, error) {
	result := s.tx.WithContext(ctx).
		Where("meme_id = ? AND user_id = ?", memeID, userID).
		Delete(&model.MemeLike{})
	return result.RowsAffected, result.Error
}

func (s *likeStore) IncrementLikeCount(ctx context.Context, memeID, delta int64) error {
	// MySQL reports zero affected rows when the clamp leaves the value
	// unchanged, so RowsAffected says nothing here. Existence is
	// established by MemeExists inside the same transaction.
	return s.tx.WithContext(ctx).
		Model(&model.Meme{}).
		Where("id = ?", memeID).
		Update("likes", gorm.Expr("GREATEST(likes + ?, 0)", delta)).
		Error
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

func isRetryable(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == mysqlErrDeadlock || myErr.Number == mysqlErrLockWaitTimeout
}
