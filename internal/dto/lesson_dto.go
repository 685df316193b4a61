package dto

import "github.com/google/uuid"

type LessonResponse struct {
	Id          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
}

type UpdateProgressRequest struct {
	Percent *int `json:"percent" validate:"required,min=0,max=100"`
}

type ProgressResponse struct {
	LessonId    uuid.UUID `json:"lessonId"`
	Percent     int       `json:"percent"`
	XPAdded     int       `json:"xpAdded"`
	BadgesAdded []string  `json:"badgesAdded"`
}
