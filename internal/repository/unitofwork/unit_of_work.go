package unitofwork

import (
	"context"

	"finquest-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	LessonRepository() contract.LessonRepository
	LessonProgressRepository() contract.LessonProgressRepository
	TradeRepository() contract.TradeRepository
	ActivityRepository() contract.ActivityRepository
	UserBadgeRepository() contract.UserBadgeRepository
}
