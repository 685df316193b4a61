package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTradeRequest struct {
	Symbol string  `json:"symbol" validate:"required,min=1,max=12"`
	Side   string  `json:"side" validate:"required,oneof=BUY SELL"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Qty    int     `json:"qty" validate:"required,min=1"`
}

type TradeResponse struct {
	Id        uuid.UUID `json:"id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RankRecalculateMessage is the payload of a rank job on the in-process queue.
type RankRecalculateMessage struct {
	UserId uuid.UUID `json:"user_id"`
}
