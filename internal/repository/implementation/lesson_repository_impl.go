package implementation

import (
	"context"
	"errors"

	"finquest-be/internal/entity"
	"finquest-be/internal/mapper"
	"finquest-be/internal/model"
	"finquest-be/internal/repository/contract"
	"finquest-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LessonRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LessonMapper
}

func NewLessonRepository(db *gorm.DB) contract.LessonRepository {
	return &LessonRepositoryImpl{
		db:     db,
		mapper: mapper.NewLessonMapper(),
	}
}

func (r *LessonRepositoryImpl) Create(ctx context.Context, lesson *entity.Lesson) error {
	m := r.mapper.ToModel(lesson)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*lesson = *r.mapper.ToEntity(m)
	return nil
}

func (r *LessonRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lesson, error) {
	var m model.Lesson
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LessonRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lesson, error) {
	var rows []*model.Lesson
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *LessonRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Lesson{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
