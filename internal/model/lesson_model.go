package model

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug        string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Position    int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type LessonProgress struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson"`
	LessonId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_lesson"`
	Percent     int       `gorm:"not null;default:0;check:percent >= 0 AND percent <= 100"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}
