package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Name         string     `gorm:"type:varchar(64);not null"`
	AvatarURL    *string    `gorm:"type:text"`
	XP           int        `gorm:"column:xp;not null;default:0;index"`
	Streak       int        `gorm:"not null;default:0"`
	RankPercent  int        `gorm:"not null;default:100"`
	LastActiveOn *time.Time `gorm:"type:date"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
