package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finquest-be/internal/dto"
	"finquest-be/internal/entity"
	"finquest-be/internal/eventbus"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

type ITradeService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTradeRequest) (*dto.TradeResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.TradeResponse, error)
}

type tradeService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  eventbus.Publisher
	ranks      RankScheduler
	now        func() time.Time
}

func NewTradeService(uowFactory unitofwork.RepositoryFactory, publisher eventbus.Publisher, ranks RankScheduler) ITradeService {
	return &tradeService{
		uowFactory: uowFactory,
		publisher:  publisher,
		ranks:      ranks,
		now:        time.Now,
	}
}

func toTradeResponse(t *entity.Trade) *dto.TradeResponse {
	return &dto.TradeResponse{
		Id:        t.Id,
		Symbol:    t.Symbol,
		Side:      string(t.Side),
		Price:     t.Price,
		Qty:       t.Qty,
		CreatedAt: t.CreatedAt,
	}
}

func (s *tradeService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateTradeRequest) (*dto.TradeResponse, error) {
	now := s.now()
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	trade := &entity.Trade{
		Id:        uuid.New(),
		UserId:    userId,
		Symbol:    symbol,
		Side:      entity.TradeSide(req.Side),
		Price:     req.Price,
		Qty:       req.Qty,
		CreatedAt: now,
	}
	activityText := fmt.Sprintf("Placed a paper trade: %s", symbol)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TradeRepository().Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("create trade: %w", err)
	}

	totalXP, err := uow.UserRepository().IncrementXP(ctx, userId, TradeXP)
	if err != nil {
		return nil, fmt.Errorf("grant trade xp: %w", err)
	}

	if err := uow.ActivityRepository().Create(ctx, &entity.Activity{
		Id:        uuid.New(),
		UserId:    userId,
		Kind:      entity.ActivityTrade,
		Text:      activityText,
		XPDelta:   TradeXP,
		Meta:      map[string]interface{}{"tradeId": trade.Id.String(), "symbol": symbol},
		CreatedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("record trade activity: %w", err)
	}

	if err := touchStreak(ctx, uow, userId, now); err != nil {
		return nil, fmt.Errorf("touch streak: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publisher.Publish(context.WithoutCancel(ctx), userId,
		events.NewTradeRecorded(trade.Id.String(), trade.Symbol, events.Side(trade.Side), trade.Price, trade.Qty, trade.CreatedAt),
		events.NewXPChanged(TradeXP, events.SourceTrade).WithTotal(totalXP),
		events.NewActivityLogged(activityText).WithXP(TradeXP),
	)
	s.ranks.Enqueue(ctx, userId)

	return toTradeResponse(trade), nil
}

func (s *tradeService) List(ctx context.Context, userId uuid.UUID) ([]*dto.TradeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trades, err := uow.TradeRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TradeResponse, 0, len(trades))
	for _, t := range trades {
		res = append(res, toTradeResponse(t))
	}
	return res, nil
}
