package service

import (
	"context"

	"finquest-be/internal/dto"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 50
)

type ILeaderboardService interface {
	Top(ctx context.Context, limit int) ([]*dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLeaderboardService(uowFactory unitofwork.RepositoryFactory) ILeaderboardService {
	return &leaderboardService{uowFactory: uowFactory}
}

// ClampLimit bounds a requested page size to [1, MaxLeaderboardLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]*dto.LeaderboardEntry, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "xp", Desc: true},
		specification.OrderBy{Field: "created_at"},
		specification.Limit{N: ClampLimit(limit)},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		res = append(res, &dto.LeaderboardEntry{
			Id:          u.Id.String(),
			Name:        u.Name,
			XP:          u.XP,
			RankPercent: u.RankPercent,
		})
	}
	return res, nil
}
