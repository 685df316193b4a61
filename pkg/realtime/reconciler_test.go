package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReconciler() (*Reconciler, *MemoryCache) {
	cache := NewMemoryCache()
	r := NewReconciler(cache, logger.NewNopLogger())
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r, cache
}

func stats(t *testing.T, cache *MemoryCache) Stats {
	t.Helper()
	v, ok := cache.Get(KeyStats)
	require.True(t, ok)
	return v.(Stats)
}

func TestReconcilerPatchesCachedEntries(t *testing.T) {
	r, cache := newTestReconciler()
	cache.Set(KeyStats, Stats{XP: 200, Badges: []string{}})
	cache.Set(KeyLessons, []Lesson{{ID: "l1"}, {ID: "l2"}})
	cache.Set(KeyMe, Profile{Name: "Ada"})

	r.HandleFrame([]byte(`{"type":"xp","xpDelta":50,"source":"lesson","totalXp":500}`))
	r.HandleFrame([]byte(`{"type":"activity","text":"Completed lesson: Compound Interest","xpDelta":50}`))
	r.HandleFrame([]byte(`{"type":"badge","badge":"First Lesson"}`))
	r.HandleFrame([]byte(`{"type":"lesson-progress","lessonId":"l2","percent":100}`))
	r.HandleFrame([]byte(`{"type":"profile","name":"Ada L."}`))

	s := stats(t, cache)
	assert.Equal(t, 500, s.XP)
	assert.Equal(t, []string{events.BadgeFirstLesson}, s.Badges)
	require.Len(t, s.Activities, 1)
	assert.Equal(t, 50, s.Activities[0].XPDelta)

	lessons, _ := cache.Get(KeyLessons)
	assert.Equal(t, []Lesson{{ID: "l1"}, {ID: "l2", Progress: 100}}, lessons)

	me, _ := cache.Get(KeyMe)
	assert.Equal(t, "Ada L.", me.(Profile).Name)
}

func TestReconcilerLeavesAbsentEntriesAlone(t *testing.T) {
	r, cache := newTestReconciler()

	r.Apply(events.NewXPChanged(15, events.SourceTrade))
	r.Apply(events.NewBadgeUnlocked(events.BadgeFastLearner))
	r.Apply(events.NewLessonProgress("l1", 40))

	for _, key := range []string{KeyStats, KeyLessons, KeyMe} {
		_, ok := cache.Get(key)
		assert.False(t, ok, key)
	}
}

func TestTradeMarksTradesStale(t *testing.T) {
	r, cache := newTestReconciler()
	cache.Set(KeyTrades, []Trade{{ID: "t0"}})

	r.HandleFrame([]byte(`{"type":"trade","tradeId":"t1","symbol":"AAPL","side":"BUY","price":10,"qty":1,"createdAt":"2024-03-01T12:00:00.000Z"}`))

	_, ok := cache.Get(KeyTrades)
	assert.False(t, ok)

	fetched := 0
	v, err := cache.Fetch(context.Background(), KeyTrades, func(ctx context.Context) (any, error) {
		fetched++
		return []Trade{{ID: "t1"}, {ID: "t0"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fetched)
	assert.Len(t, v, 2)
}

func TestReconcilerIgnoresBadFrames(t *testing.T) {
	r, cache := newTestReconciler()
	cache.Set(KeyStats, Stats{XP: 10})

	assert.NotPanics(t, func() {
		r.HandleFrame([]byte(`not json`))
		r.HandleFrame([]byte(`{"type":"confetti"}`))
		r.HandleFrame([]byte(`{}`))
	})
	assert.Equal(t, 10, stats(t, cache).XP)
}

func TestMemoryCacheFetch(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return Stats{XP: calls}, nil
	}

	v, err := cache.Fetch(ctx, KeyStats, fetch)
	require.NoError(t, err)
	assert.Equal(t, Stats{XP: 1}, v)

	v, _ = cache.Fetch(ctx, KeyStats, fetch)
	assert.Equal(t, Stats{XP: 1}, v)

	cache.InvalidateAll()
	v, _ = cache.Fetch(ctx, KeyStats, fetch)
	assert.Equal(t, Stats{XP: 2}, v)

	boom := errors.New("boom")
	_, err = cache.Fetch(ctx, KeyMe, func(ctx context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	_, ok := cache.Get(KeyMe)
	assert.False(t, ok)
}
