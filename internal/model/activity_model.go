package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Activity struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_user_created"`
	Kind      string         `gorm:"type:varchar(16);not null"`
	Text      string         `gorm:"type:text;not null"`
	XPDelta   int            `gorm:"column:xp_delta;not null;default:0"`
	Meta      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_activity_user_created"`
}

func (Activity) TableName() string {
	return "activities"
}

type UserBadge struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge"`
	Badge     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_badge"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
