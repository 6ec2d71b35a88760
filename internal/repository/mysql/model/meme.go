package model

import (
	"time"

	"github.com/narongrit/meme-hub/domain"
)

type Meme struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(30);not null;default:'General';index"`
	Image       string    `gorm:"type:varchar(64);not null"`
	Likes       int64     `gorm:"not null;default:0"`
	CreatedBy   int64     `gorm:"column:created_by;not null"`
	CreatedAt   time.Time `gorm:"type:datetime;index:idx_memes_created_at"`
}

func (Meme) TableName() string {
	return "memes"
}

func (m *Meme) ToDomain() domain.Meme {
	return domain.Meme{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		ImageRef:    m.Image,
		Likes:       m.Likes,
		CreatedAt:   m.CreatedAt,
		CreatedBy: domain.User{
			ID: m.CreatedBy,
		},
	}
}

func NewMemeFromDomain(m *domain.Meme) *Meme {
	return &Meme{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Image:       m.ImageRef,
		Likes:       m.Likes,
		CreatedBy:   m.CreatedBy.ID,
		CreatedAt:   m.CreatedAt,
	}
}
