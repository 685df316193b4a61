package model

import (
	"time"

	"github.com/google/uuid"
)

type Trade struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Symbol    string    `gorm:"type:varchar(12);not null"`
	Side      string    `gorm:"type:varchar(4);not null"`
	Price     float64   `gorm:"type:numeric(18,4);not null"`
	Qty       int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Trade) TableName() string {
	return "trades"
}
