package realtime

import "time"

// MaxActivities bounds the recent-activity list kept in Stats.
const MaxActivities = 10

type Activity struct {
	Text      string    `json:"text"`
	XPDelta   int       `json:"xpDelta"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	XP          int        `json:"xp"`
	Streak      int        `json:"streak"`
	Badges      []string   `json:"badges"`
	RankPercent int        `json:"rankPercent"`
	Activities  []Activity `json:"activities"`
}

type Lesson struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
}

type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	XP          int       `json:"xp"`
	Streak      int       `json:"streak"`
	RankPercent int       `json:"rankPercent"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Trade struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Side      string    `json:"side"`
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"createdAt"`
}
