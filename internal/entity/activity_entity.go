package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityKind string

const (
	ActivityTrade  ActivityKind = "trade"
	ActivityLesson ActivityKind = "lesson"
	ActivityBadge  ActivityKind = "badge"
)

type Activity struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Kind      ActivityKind
	Text      string
	XPDelta   int
	Meta      map[string]interface{}
	CreatedAt time.Time
}

type UserBadge struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Badge     string
	CreatedAt time.Time
}
