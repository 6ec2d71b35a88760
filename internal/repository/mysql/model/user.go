package model

import (
	"time"

	"github.com/narongrit/meme-hub/domain"
)

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(45);not null"`
	Email     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Password  string    `gorm:"type:varchar(100);not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:'user'"`
	Banned    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "members"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Role:      m.Role,
		Banned:    m.Banned,
		CreatedAt: m.CreatedAt,
	}
}
