package events

import (
	"encoding/json"
	"time"
)

// XPSource enumerates what granted experience points.
type XPSource string

const (
	SourceTrade     XPSource = "trade"
	SourceLesson    XPSource = "lesson"
	SourceChallenge XPSource = "challenge"
)

func (s XPSource) Valid() bool {
	switch s {
	case SourceTrade, SourceLesson, SourceChallenge:
		return true
	}
	return false
}

// Side is the direction of a paper trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Badge catalog.
const (
	BadgeFirstLesson  = "First Lesson"
	BadgeFastLearner  = "Fast Learner"
	BadgeLessonMaster = "Lesson Master"
)

// XPChanged reports an XP grant. TotalXP, when present, is authoritative.
type XPChanged struct {
	XPDelta int      `json:"xpDelta"`
	Source  XPSource `json:"source"`
	TotalXP *int     `json:"totalXp,omitempty"`
}

func NewXPChanged(delta int, source XPSource) XPChanged {
	return XPChanged{XPDelta: delta, Source: source}
}

// WithTotal returns a copy carrying the authoritative total.
func (e XPChanged) WithTotal(total int) XPChanged {
	e.TotalXP = &total
	return e
}

func (XPChanged) EventType() Type { return TypeXP }

func (e XPChanged) MarshalJSON() ([]byte, error) {
	type plain XPChanged
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeXP, plain(e)})
}

// ActivityLogged announces a new activity-feed entry. The receiver stamps the time.
type ActivityLogged struct {
	Text    string `json:"text"`
	XPDelta *int   `json:"xpDelta,omitempty"`
}

func NewActivityLogged(text string) ActivityLogged {
	return ActivityLogged{Text: text}
}

func (e ActivityLogged) WithXP(delta int) ActivityLogged {
	e.XPDelta = &delta
	return e
}

func (ActivityLogged) EventType() Type { return TypeActivity }

func (e ActivityLogged) MarshalJSON() ([]byte, error) {
	type plain ActivityLogged
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeActivity, plain(e)})
}

// LessonProgress carries the stored (monotonic) percent for one lesson.
type LessonProgress struct {
	LessonID string `json:"lessonId"`
	Percent  int    `json:"percent"`
}

func NewLessonProgress(lessonID string, percent int) LessonProgress {
	return LessonProgress{LessonID: lessonID, Percent: percent}
}

func (LessonProgress) EventType() Type { return TypeLessonProgress }

func (e LessonProgress) MarshalJSON() ([]byte, error) {
	type plain LessonProgress
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeLessonProgress, plain(e)})
}

// TradeRecorded confirms a persisted paper trade.
type TradeRecorded struct {
	TradeID   string  `json:"tradeId"`
	Symbol    string  `json:"symbol"`
	Side      Side    `json:"side"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	CreatedAt string  `json:"createdAt"`
}

func NewTradeRecorded(tradeID, symbol string, side Side, price float64, qty int, createdAt time.Time) TradeRecorded {
	return TradeRecorded{
		TradeID:   tradeID,
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Qty:       qty,
		CreatedAt: createdAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (TradeRecorded) EventType() Type { return TypeTrade }

func (e TradeRecorded) MarshalJSON() ([]byte, error) {
	type plain TradeRecorded
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeTrade, plain(e)})
}

// ProfileUpdated carries only the fields that changed; nil means unchanged.
type ProfileUpdated struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (e ProfileUpdated) WithName(name string) ProfileUpdated {
	e.Name = &name
	return e
}

func (e ProfileUpdated) WithAvatarURL(url string) ProfileUpdated {
	e.AvatarURL = &url
	return e
}

// Empty reports whether no field changed.
func (e ProfileUpdated) Empty() bool {
	return e.Name == nil && e.AvatarURL == nil
}

func (ProfileUpdated) EventType() Type { return TypeProfile }

func (e ProfileUpdated) MarshalJSON() ([]byte, error) {
	type plain ProfileUpdated
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeProfile, plain(e)})
}

type BadgeUnlocked struct {
	Badge string `json:"badge"`
}

func NewBadgeUnlocked(badge string) BadgeUnlocked {
	return BadgeUnlocked{Badge: badge}
}

func (BadgeUnlocked) EventType() Type { return TypeBadge }

func (e BadgeUnlocked) MarshalJSON() ([]byte, error) {
	type plain BadgeUnlocked
	return json.Marshal(struct {
		Type Type `json:"type"`
		plain
	}{TypeBadge, plain(e)})
}
