package contract

import (
	"context"

	"finquest-be/internal/entity"
	"finquest-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LessonRepository interface {
	Create(ctx context.Context, lesson *entity.Lesson) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lesson, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lesson, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type LessonProgressRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LessonProgress, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Lock makes sure the (user, lesson) row exists, then locks it for the rest of the
	// transaction and returns it. A fresh row starts at 0 percent.
	Lock(ctx context.Context, userID, lessonID uuid.UUID) (*entity.LessonProgress, error)
	// UpsertMax stores max(existing, percent) and returns the stored value.
	UpsertMax(ctx context.Context, userID, lessonID uuid.UUID, percent int) (int, error)
}
