package service

import (
	"context"
	"encoding/json"
	"math"

	"finquest-be/internal/dto"
	"finquest-be/internal/pkg/logger"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// RankScheduler queues a rank recalculation for a user whose XP changed.
type RankScheduler interface {
	Enqueue(ctx context.Context, userID uuid.UUID)
}

type IRankService interface {
	RankScheduler
	Consume(ctx context.Context) error
	Recalculate(ctx context.Context, userID uuid.UUID) error
}

type rankService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRankService(pubSub *gochannel.GoChannel, topicName string, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IRankService {
	return &rankService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *rankService) Enqueue(ctx context.Context, userID uuid.UUID) {
	payload, err := json.Marshal(dto.RankRecalculateMessage{UserId: userID})
	if err != nil {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Warn("RankService", "Failed to enqueue rank job", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func (s *rankService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *rankService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RankRecalculateMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("RankService", "Failed to unmarshal rank job", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	// Ack even on failure: the next XP grant schedules a fresh recalculation.
	if err := s.Recalculate(ctx, payload.UserId); err != nil {
		s.logger.Error("RankService", "Rank recalculation failed", map[string]interface{}{
			"user_id": payload.UserId,
			"error":   err.Error(),
		})
	}
	msg.Ack()
}

// rankPercent is the "top N%" bucket for a user with `above` users strictly ahead out of `total`.
func rankPercent(above, total int64) int {
	if total <= 0 {
		return 100
	}
	pct := int(math.Ceil(float64(above+1) * 100 / float64(total)))
	if pct < 1 {
		return 1
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *rankService) Recalculate(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	total, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return err
	}
	above, err := uow.UserRepository().Count(ctx, specification.XPAbove{XP: user.XP})
	if err != nil {
		return err
	}

	return uow.UserRepository().UpdateRankPercent(ctx, userID, rankPercent(above, total))
}
