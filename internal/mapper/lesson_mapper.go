package mapper

import (
	"finquest-be/internal/entity"
	"finquest-be/internal/model"
)

type LessonMapper struct{}

func NewLessonMapper() *LessonMapper {
	return &LessonMapper{}
}

func (m *LessonMapper) ToEntity(l *model.Lesson) *entity.Lesson {
	if l == nil {
		return nil
	}
	return &entity.Lesson{
		Id:          l.Id,
		Slug:        l.Slug,
		Title:       l.Title,
		Description: l.Description,
		Position:    l.Position,
		CreatedAt:   l.CreatedAt,
	}
}

func (m *LessonMapper) ToModel(l *entity.Lesson) *model.Lesson {
	if l == nil {
		return nil
	}
	return &model.Lesson{
		Id:          l.Id,
		Slug:        l.Slug,
		Title:       l.Title,
		Description: l.Description,
		Position:    l.Position,
		CreatedAt:   l.CreatedAt,
	}
}

func (m *LessonMapper) ToEntities(lessons []*model.Lesson) []*entity.Lesson {
	entities := make([]*entity.Lesson, len(lessons))
	for i, l := range lessons {
		entities[i] = m.ToEntity(l)
	}
	return entities
}

func (m *LessonMapper) ProgressToEntity(p *model.LessonProgress) *entity.LessonProgress {
	if p == nil {
		return nil
	}
	return &entity.LessonProgress{
		Id:          p.Id,
		UserId:      p.UserId,
		LessonId:    p.LessonId,
		Percent:     p.Percent,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *LessonMapper) ProgressToEntities(rows []*model.LessonProgress) []*entity.LessonProgress {
	entities := make([]*entity.LessonProgress, len(rows))
	for i, p := range rows {
		entities[i] = m.ProgressToEntity(p)
	}
	return entities
}
