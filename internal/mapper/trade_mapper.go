package mapper

import (
	"finquest-be/internal/entity"
	"finquest-be/internal/model"
)

type TradeMapper struct{}

func NewTradeMapper() *TradeMapper {
	return &TradeMapper{}
}

func (m *TradeMapper) ToEntity(t *model.Trade) *entity.Trade {
	if t == nil {
		return nil
	}
	return &entity.Trade{
		Id:        t.Id,
		UserId:    t.UserId,
		Symbol:    t.Symbol,
		Side:      entity.TradeSide(t.Side),
		Price:     t.Price,
		Qty:       t.Qty,
		CreatedAt: t.CreatedAt,
	}
}

func (m *TradeMapper) ToModel(t *entity.Trade) *model.Trade {
	if t == nil {
		return nil
	}
	return &model.Trade{
		Id:        t.Id,
		UserId:    t.UserId,
		Symbol:    t.Symbol,
		Side:      string(t.Side),
		Price:     t.Price,
		Qty:       t.Qty,
		CreatedAt: t.CreatedAt,
	}
}

func (m *TradeMapper) ToEntities(trades []*model.Trade) []*entity.Trade {
	entities := make([]*entity.Trade, len(trades))
	for i, t := range trades {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
