package mapper

import (
	"encoding/json"

	"finquest-be/internal/entity"
	"finquest-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.Activity) *entity.Activity {
	if a == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(a.Meta) > 0 {
		// Unreadable metadata is dropped; the feed only needs text and delta.
		_ = json.Unmarshal(a.Meta, &meta)
	}
	return &entity.Activity{
		Id:        a.Id,
		UserId:    a.UserId,
		Kind:      entity.ActivityKind(a.Kind),
		Text:      a.Text,
		XPDelta:   a.XPDelta,
		Meta:      meta,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.Activity) *model.Activity {
	if a == nil {
		return nil
	}
	var meta datatypes.JSON
	if len(a.Meta) > 0 {
		if raw, err := json.Marshal(a.Meta); err == nil {
			meta = datatypes.JSON(raw)
		}
	}
	return &model.Activity{
		Id:        a.Id,
		UserId:    a.UserId,
		Kind:      string(a.Kind),
		Text:      a.Text,
		XPDelta:   a.XPDelta,
		Meta:      meta,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityMapper) ToEntities(rows []*model.Activity) []*entity.Activity {
	entities := make([]*entity.Activity, len(rows))
	for i, a := range rows {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *ActivityMapper) BadgeToEntity(b *model.UserBadge) *entity.UserBadge {
	if b == nil {
		return nil
	}
	return &entity.UserBadge{
		Id:        b.Id,
		UserId:    b.UserId,
		Badge:     b.Badge,
		CreatedAt: b.CreatedAt,
	}
}

func (m *ActivityMapper) BadgesToEntities(rows []*model.UserBadge) []*entity.UserBadge {
	entities := make([]*entity.UserBadge, len(rows))
	for i, b := range rows {
		entities[i] = m.BadgeToEntity(b)
	}
	return entities
}
