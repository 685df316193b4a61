package implementation

import (
	"context"

	"finquest-be/internal/entity"
	"finquest-be/internal/mapper"
	"finquest-be/internal/model"
	"finquest-be/internal/repository/contract"
	"finquest-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LessonMapper
}

func NewLessonProgressRepository(db *gorm.DB) contract.LessonProgressRepository {
	return &LessonProgressRepositoryImpl{
		db:     db,
		mapper: mapper.NewLessonMapper(),
	}
}

func (r *LessonProgressRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LessonProgress, error) {
	var rows []*model.LessonProgress
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ProgressToEntities(rows), nil
}

func (r *LessonProgressRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.LessonProgress{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LessonProgressRepositoryImpl) Lock(ctx context.Context, userID, lessonID uuid.UUID) (*entity.LessonProgress, error) {
	// Insert before locking so concurrent first-time writers serialize on the same row.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(&model.LessonProgress{UserId: userID, LessonId: lessonID}).Error
	if err != nil {
		return nil, err
	}

	var m model.LessonProgress
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ProgressToEntity(&m), nil
}

// UpsertMax never lowers a stored percent: concurrent or out-of-order writes converge on the maximum.
func (r *LessonProgressRepositoryImpl) UpsertMax(ctx context.Context, userID, lessonID uuid.UUID, percent int) (int, error) {
	row := model.LessonProgress{
		UserId:   userID,
		LessonId: lessonID,
		Percent:  percent,
	}

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"percent":    gorm.Expr("GREATEST(lesson_progresses.percent, EXCLUDED.percent)"),
					"updated_at": gorm.Expr("NOW()"),
					"completed_at": gorm.Expr(
						"CASE WHEN lesson_progresses.completed_at IS NULL AND GREATEST(lesson_progresses.percent, EXCLUDED.percent) >= 100 THEN NOW() ELSE lesson_progresses.completed_at END",
					),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "percent"}}},
		).
		Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Percent, nil
}
