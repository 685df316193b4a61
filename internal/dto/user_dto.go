package dto

import "time"

// UpdateProfileRequest treats an absent field and an empty avatarUrl as "leave unchanged".
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=64"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type ActivityResponse struct {
	Text      string    `json:"text"`
	XPDelta   int       `json:"xpDelta"`
	CreatedAt time.Time `json:"createdAt"`
}

type StatsResponse struct {
	XP          int                `json:"xp"`
	Streak      int                `json:"streak"`
	Badges      []string           `json:"badges"`
	RankPercent int                `json:"rankPercent"`
	Activities  []ActivityResponse `json:"activities"`
}

type LeaderboardEntry struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	XP          int    `json:"xp"`
	RankPercent int    `json:"rankPercent"`
}
