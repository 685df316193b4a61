package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	AvatarURL    *string
	XP           int
	Streak       int
	RankPercent  int
	LastActiveOn *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
