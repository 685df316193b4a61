package contract

import (
	"context"
	"time"

	"finquest-be/internal/entity"
	"finquest-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// IncrementXP atomically adds delta and returns the new total.
	IncrementXP(ctx context.Context, id uuid.UUID, delta int) (int, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, avatarURL *string) error
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int, activeOn time.Time) error
	UpdateRankPercent(ctx context.Context, id uuid.UUID, percent int) error
}
