package service

import (
	"context"
	"testing"

	"finquest-be/internal/entity"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lessonFixture struct {
	store   *fakeStore
	pub     *recordingPublisher
	ranks   *recordingRanks
	svc     ILessonService
	user    *entity.User
	lessons []*entity.Lesson
}

func newLessonFixture(titles ...string) *lessonFixture {
	f := &lessonFixture{
		store: newFakeStore(),
		pub:   &recordingPublisher{},
		ranks: &recordingRanks{},
	}
	f.user = f.store.addUser("ada", 0)
	f.lessons = f.store.addLessons(titles...)
	f.svc = NewLessonService(f.store, f.pub, f.ranks)
	return f
}

func TestUpdateProgressNeverDecreases(t *testing.T) {
	f := newLessonFixture("Compound Interest", "Risk & Volatility")
	ctx := context.Background()
	lesson := f.lessons[0].Id

	res, err := f.svc.UpdateProgress(ctx, f.user.Id, lesson, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Percent)
	assert.Zero(t, res.XPAdded)

	res, err = f.svc.UpdateProgress(ctx, f.user.Id, lesson, 20)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Percent)

	got := f.pub.events()
	require.Len(t, got, 2)
	assert.Equal(t, events.NewLessonProgress(lesson.String(), 60), got[1])
	assert.Zero(t, f.store.user(f.user.Id).XP)
	assert.Zero(t, f.ranks.count())
}

func TestCompletionGrantsXPOnlyOnce(t *testing.T) {
	f := newLessonFixture("Compound Interest", "Risk & Volatility")
	ctx := context.Background()
	lesson := f.lessons[0].Id

	first, err := f.svc.UpdateProgress(ctx, f.user.Id, lesson, 100)
	require.NoError(t, err)
	assert.Equal(t, LessonCompletionXP, first.XPAdded)
	assert.Equal(t, []string{events.BadgeFirstLesson}, first.BadgesAdded)

	f.pub.reset()
	again, err := f.svc.UpdateProgress(ctx, f.user.Id, lesson, 100)
	require.NoError(t, err)
	assert.Zero(t, again.XPAdded)
	assert.Empty(t, again.BadgesAdded)
	assert.Equal(t, []events.Type{events.TypeLessonProgress}, f.pub.types())

	lower, err := f.svc.UpdateProgress(ctx, f.user.Id, lesson, 30)
	require.NoError(t, err)
	assert.Equal(t, 100, lower.Percent)
	assert.Zero(t, lower.XPAdded)

	assert.Equal(t, LessonCompletionXP, f.store.user(f.user.Id).XP)
	assert.Equal(t, []string{events.BadgeFirstLesson}, f.store.badgesOf(f.user.Id))
	assert.Len(t, f.store.activitiesOf(f.user.Id), 2)
	assert.Equal(t, 1, f.ranks.count())
}

func TestCompletionPublishOrder(t *testing.T) {
	f := newLessonFixture("Compound Interest", "Risk & Volatility", "Market Microstructure", "Options Basics")
	lesson := f.lessons[0]

	_, err := f.svc.UpdateProgress(context.Background(), f.user.Id, lesson.Id, 100)
	require.NoError(t, err)

	got := f.pub.events()
	require.Equal(t, []events.Type{
		events.TypeLessonProgress,
		events.TypeXP,
		events.TypeActivity,
		events.TypeBadge,
		events.TypeActivity,
	}, f.pub.types())

	assert.Equal(t, events.NewLessonProgress(lesson.Id.String(), 100), got[0])
	assert.Equal(t, events.NewXPChanged(50, events.SourceLesson).WithTotal(50), got[1])
	assert.Equal(t, events.NewActivityLogged("Completed lesson: Compound Interest").WithXP(50), got[2])
	assert.Equal(t, events.NewBadgeUnlocked(events.BadgeFirstLesson), got[3])
	assert.Equal(t, events.NewActivityLogged("Unlocked badge: First Lesson").WithXP(0), got[4])
}

func TestFinishingTheCatalogUnlocksSeveralBadges(t *testing.T) {
	f := newLessonFixture("Compound Interest", "Risk & Volatility", "Market Microstructure")
	ctx := context.Background()

	for _, l := range f.lessons[:2] {
		_, err := f.svc.UpdateProgress(ctx, f.user.Id, l.Id, 100)
		require.NoError(t, err)
	}

	f.pub.reset()
	res, err := f.svc.UpdateProgress(ctx, f.user.Id, f.lessons[2].Id, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{events.BadgeFastLearner, events.BadgeLessonMaster}, res.BadgesAdded)

	assert.Equal(t, []events.Type{
		events.TypeLessonProgress,
		events.TypeXP,
		events.TypeActivity,
		events.TypeBadge,
		events.TypeActivity,
		events.TypeBadge,
		events.TypeActivity,
	}, f.pub.types())

	assert.ElementsMatch(t,
		[]string{events.BadgeFirstLesson, events.BadgeFastLearner, events.BadgeLessonMaster},
		f.store.badgesOf(f.user.Id),
	)
	assert.Equal(t, 3*LessonCompletionXP, f.store.user(f.user.Id).XP)
}

func TestUpdateProgressUnknownLesson(t *testing.T) {
	f := newLessonFixture("Compound Interest")

	_, err := f.svc.UpdateProgress(context.Background(), f.user.Id, uuid.New(), 50)
	assert.ErrorIs(t, err, ErrLessonNotFound)
	assert.Empty(t, f.pub.events())
}

func TestListLessonsMergesProgress(t *testing.T) {
	f := newLessonFixture("Compound Interest", "Risk & Volatility")
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, f.user.Id, f.lessons[1].Id, 40)
	require.NoError(t, err)

	other := f.store.addUser("grace", 0)
	_, err = f.svc.UpdateProgress(ctx, other.Id, f.lessons[0].Id, 90)
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.user.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Compound Interest", list[0].Title)
	assert.Zero(t, list[0].Progress)
	assert.Equal(t, 40, list[1].Progress)
}

func TestCompletionStartsStreak(t *testing.T) {
	f := newLessonFixture("Compound Interest")

	_, err := f.svc.UpdateProgress(context.Background(), f.user.Id, f.lessons[0].Id, 100)
	require.NoError(t, err)

	u := f.store.user(f.user.Id)
	assert.Equal(t, 1, u.Streak)
	require.NotNil(t, u.LastActiveOn)
}
