package entity

import (
	"time"

	"github.com/google/uuid"
)

type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

type Trade struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Symbol    string
	Side      TradeSide
	Price     float64
	Qty       int
	CreatedAt time.Time
}
