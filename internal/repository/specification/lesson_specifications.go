package specification

import "gorm.io/gorm"

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

// Completed matches progress rows at 100 percent.
type Completed struct{}

func (s Completed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("percent >= ?", 100)
}
