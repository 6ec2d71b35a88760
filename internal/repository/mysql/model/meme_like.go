package model

import (
	"time"

	"github.com/narongrit/meme-hub/domain"
)

// MemeLike carries a composite unique key on (meme_id, user_id). The like
// ledger's race safety rests on that constraint.
type MemeLike struct {
	MemeID    int64     `gorm:"column:meme_id;not null;uniqueIndex:uniq_meme_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:uniq_meme_user"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (MemeLike) TableName() string {
	return "meme_likes"
}

func (l *MemeLike) ToDomain() domain.Like {
	return domain.Like{
		MemeID:    l.MemeID,
		UserID:    l.UserID,
		CreatedAt: l.CreatedAt,
	}
}
