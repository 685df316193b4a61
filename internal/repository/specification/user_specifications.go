package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserOwnedBy matches rows belonging to a user (trades, activities, progress, badges).
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// XPAbove matches users with strictly more XP, used for rank computation.
type XPAbove struct {
	XP int
}

func (s XPAbove) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("xp > ?", s.XP)
}
