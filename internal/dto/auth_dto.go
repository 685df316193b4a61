package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SafeUser is a user without credentials.
type SafeUser struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	XP          int       `json:"xp"`
	Streak      int       `json:"streak"`
	RankPercent int       `json:"rankPercent"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  SafeUser `json:"user"`
}
