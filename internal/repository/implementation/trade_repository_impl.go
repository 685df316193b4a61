package implementation

import (
	"context"

	"finquest-be/internal/entity"
	"finquest-be/internal/mapper"
	"finquest-be/internal/model"
	"finquest-be/internal/repository/contract"
	"finquest-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TradeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TradeMapper
}

func NewTradeRepository(db *gorm.DB) contract.TradeRepository {
	return &TradeRepositoryImpl{
		db:     db,
		mapper: mapper.NewTradeMapper(),
	}
}

func (r *TradeRepositoryImpl) Create(ctx context.Context, trade *entity.Trade) error {
	m := r.mapper.ToModel(trade)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*trade = *r.mapper.ToEntity(m)
	return nil
}

func (r *TradeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trade, error) {
	var rows []*model.Trade
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}
