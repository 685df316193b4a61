package service

import (
	"context"
	"time"

	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

const (
	TradeXP            = 12
	LessonCompletionXP = 50

	RecentActivityLimit = 10
)

// milestoneBadges returns the badges earned by reaching `completed` finished lessons out of `total`.
// Several can fire at once, e.g. finishing the third and last lesson of a three-lesson catalog.
func milestoneBadges(completed, total int64) []string {
	var badges []string
	if completed == 1 {
		badges = append(badges, events.BadgeFirstLesson)
	}
	if completed == 3 {
		badges = append(badges, events.BadgeFastLearner)
	}
	if total > 0 && completed == total {
		badges = append(badges, events.BadgeLessonMaster)
	}
	return badges
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextStreak advances a daily streak: same day keeps it, the next day extends it, a gap resets it.
func nextStreak(current int, lastActive *time.Time, now time.Time) (int, bool) {
	if lastActive == nil {
		return 1, true
	}

	days := int(dayOf(now).Sub(dayOf(*lastActive)).Hours() / 24)
	switch {
	case days <= 0:
		if current < 1 {
			return 1, true
		}
		return current, false
	case days == 1:
		return current + 1, true
	default:
		return 1, true
	}
}

func touchStreak(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, now time.Time) error {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	streak, changed := nextStreak(user.Streak, user.LastActiveOn, now)
	if !changed {
		return nil
	}
	return uow.UserRepository().UpdateStreak(ctx, userID, streak, dayOf(now))
}
