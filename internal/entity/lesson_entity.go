package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lesson struct {
	Id          uuid.UUID
	Slug        string
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
}

// LessonProgress is one user's completion percent for one lesson. Percent never decreases.
type LessonProgress struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	LessonId    uuid.UUID
	Percent     int
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *LessonProgress) Completed() bool {
	return p != nil && p.Percent >= 100
}
