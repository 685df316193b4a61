package contract

import (
	"context"

	"finquest-be/internal/entity"
	"finquest-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
}

type UserBadgeRepository interface {
	// Add inserts the badge with set semantics and reports whether it was newly added.
	Add(ctx context.Context, userID uuid.UUID, badge string) (bool, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserBadge, error)
}
