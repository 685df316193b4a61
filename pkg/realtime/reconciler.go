package realtime

import (
	"sync"
	"time"

	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"
)

// Reconciler keeps a QueryCache consistent with the live event stream.
// It only patches entries that are already cached and never fetches.
type Reconciler struct {
	mu     sync.Mutex
	cache  QueryCache
	now    func() time.Time
	logger logger.ILogger
}

func NewReconciler(cache QueryCache, log logger.ILogger) *Reconciler {
	return &Reconciler{
		cache:  cache,
		now:    time.Now,
		logger: log,
	}
}

// HandleFrame decodes one data frame and applies it. Malformed and unknown frames are dropped.
func (r *Reconciler) HandleFrame(data []byte) {
	evt, err := events.Decode(data)
	if err != nil {
		r.logger.Debug("Reconciler", "Ignoring frame", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	r.Apply(evt)
}

func (r *Reconciler) Apply(evt events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := evt.(type) {
	case events.XPChanged:
		update(r.cache, KeyStats, func(s Stats) Stats { return ApplyXP(s, e) })
	case events.ActivityLogged:
		now := r.now()
		update(r.cache, KeyStats, func(s Stats) Stats { return ApplyActivity(s, e, now) })
	case events.LessonProgress:
		update(r.cache, KeyLessons, func(ls []Lesson) []Lesson { return ApplyLessonProgress(ls, e) })
	case events.TradeRecorded:
		// Portfolio views aggregate the whole ordered history, so refetch instead of patching.
		r.cache.Invalidate(KeyTrades)
	case events.ProfileUpdated:
		update(r.cache, KeyMe, func(p Profile) Profile { return ApplyProfile(p, e) })
	case events.BadgeUnlocked:
		update(r.cache, KeyStats, func(s Stats) Stats { return ApplyBadge(s, e) })
	}
}

// update applies fn to the cached value under key when it exists and has type T.
func update[T any](cache QueryCache, key string, fn func(T) T) {
	v, ok := cache.Get(key)
	if !ok {
		return
	}
	cur, ok := v.(T)
	if !ok {
		return
	}
	cache.Set(key, fn(cur))
}
