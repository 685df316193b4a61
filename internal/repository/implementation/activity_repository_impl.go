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

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *entity.Activity) error {
	m := r.mapper.ToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	var rows []*model.Activity
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

type UserBadgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewUserBadgeRepository(db *gorm.DB) contract.UserBadgeRepository {
	return &UserBadgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *UserBadgeRepositoryImpl) Add(ctx context.Context, userID uuid.UUID, badge string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge"}},
			DoNothing: true,
		}).
		Create(&model.UserBadge{UserId: userID, Badge: badge})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *UserBadgeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserBadge, error) {
	var rows []*model.UserBadge
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.BadgesToEntities(rows), nil
}
