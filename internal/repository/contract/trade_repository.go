package contract

import (
	"context"

	"finquest-be/internal/entity"
	"finquest-be/internal/repository/specification"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *entity.Trade) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trade, error)
}
