package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"finquest-be/internal/entity"
	"finquest-be/internal/repository/contract"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory RepositoryFactory. It understands the specifications the
// services use and panics on anything else so a new query shape is noticed in tests.
type fakeStore struct {
	mu         sync.Mutex
	users      []*entity.User
	lessons    []*entity.Lesson
	progress   []*entity.LessonProgress
	trades     []*entity.Trade
	activities []*entity.Activity
	badges     []*entity.UserBadge
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: f}
}

func (f *fakeStore) addUser(name string, xp int) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &entity.User{
		Id:          uuid.New(),
		Email:       fmt.Sprintf("%s@example.com", name),
		Name:        name,
		XP:          xp,
		RankPercent: 100,
		CreatedAt:   time.Now(),
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeStore) addLessons(titles ...string) []*entity.Lesson {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Lesson
	for i, title := range titles {
		l := &entity.Lesson{
			Id:        uuid.New(),
			Slug:      fmt.Sprintf("lesson-%d", i+1),
			Title:     title,
			Position:  i + 1,
			CreatedAt: time.Now(),
		}
		f.lessons = append(f.lessons, l)
		out = append(out, l)
	}
	return out
}

func (f *fakeStore) user(id uuid.UUID) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Id == id {
			return *u
		}
	}
	return entity.User{}
}

func (f *fakeStore) activitiesOf(id uuid.UUID) []entity.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Activity
	for _, a := range f.activities {
		if a.UserId == id {
			out = append(out, *a)
		}
	}
	return out
}

func (f *fakeStore) badgesOf(id uuid.UUID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, b := range f.badges {
		if b.UserId == id {
			out = append(out, b.Badge)
		}
	}
	return out
}

type fakeUoW struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUoW) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *fakeUoW) Rollback() error {
	u.inTx = false
	return nil
}

func (u *fakeUoW) UserRepository() contract.UserRepository { return &fakeUserRepo{u.store} }
func (u *fakeUoW) LessonRepository() contract.LessonRepository { return &fakeLessonRepo{u.store} }
func (u *fakeUoW) TradeRepository() contract.TradeRepository { return &fakeTradeRepo{u.store} }
func (u *fakeUoW) ActivityRepository() contract.ActivityRepository { return &fakeActivityRepo{u.store} }
func (u *fakeUoW) UserBadgeRepository() contract.UserBadgeRepository {
	return &fakeBadgeRepo{u.store}
}
func (u *fakeUoW) LessonProgressRepository() contract.LessonProgressRepository {
	return &fakeProgressRepo{u.store}
}

// query filters items by the non-ordering specs, then applies OrderBy and Limit.
func query[T any](
	items []T,
	specs []specification.Specification,
	match func(T, specification.Specification) bool,
	cmp func(a, b T, field string) int,
) []T {
	var (
		orders []specification.OrderBy
		limit  = -1
	)
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.OrderBy:
			orders = append(orders, sp)
		case specification.Limit:
			limit = sp.N
		}
	}

	var out []T
next:
	for _, it := range items {
		for _, s := range specs {
			switch s.(type) {
			case specification.OrderBy, specification.Limit:
				continue
			}
			if !match(it, s) {
				continue next
			}
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range orders {
			c := cmp(out[i], out[j], o.Field)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpTime(a, b time.Time) int {
	return a.Compare(b)
}

func unsupported(s specification.Specification) bool {
	panic(fmt.Sprintf("fake store: unsupported specification %T", s))
}

type fakeUserRepo struct{ s *fakeStore }

func matchUser(u *entity.User, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return u.Id == sp.ID
	case specification.ByEmail:
		return u.Email == sp.Email
	case specification.XPAbove:
		return u.XP > sp.XP
	}
	return unsupported(spec)
}

func cmpUser(a, b *entity.User, field string) int {
	switch field {
	case "xp":
		return cmpInt(a.XP, b.XP)
	case "created_at":
		return cmpTime(a.CreatedAt, b.CreatedAt)
	}
	panic("fake store: unsupported user order " + field)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *user
	r.s.users = append(r.s.users, &cp)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	found, _ := r.FindAll(ctx, specs...)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range query(r.s.users, specs, matchUser, cmpUser) {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *fakeUserRepo) find(id uuid.UUID) *entity.User {
	for _, u := range r.s.users {
		if u.Id == id {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) IncrementXP(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return 0, gorm.ErrRecordNotFound
	}
	u.XP += delta
	return u.XP, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, avatarURL *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if avatarURL != nil {
		v := *avatarURL
		u.AvatarURL = &v
	}
	return nil
}

func (r *fakeUserRepo) UpdateStreak(ctx context.Context, id uuid.UUID, streak int, activeOn time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	u.Streak = streak
	u.LastActiveOn = &activeOn
	return nil
}

func (r *fakeUserRepo) UpdateRankPercent(ctx context.Context, id uuid.UUID, percent int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.find(id)
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	u.RankPercent = percent
	return nil
}

type fakeLessonRepo struct{ s *fakeStore }

func matchLesson(l *entity.Lesson, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return l.Id == sp.ID
	case specification.BySlug:
		return l.Slug == sp.Slug
	}
	return unsupported(spec)
}

func cmpLesson(a, b *entity.Lesson, field string) int {
	switch field {
	case "position":
		return cmpInt(a.Position, b.Position)
	case "created_at":
		return cmpTime(a.CreatedAt, b.CreatedAt)
	}
	panic("fake store: unsupported lesson order " + field)
}

func (r *fakeLessonRepo) Create(ctx context.Context, lesson *entity.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *lesson
	r.s.lessons = append(r.s.lessons, &cp)
	return nil
}

func (r *fakeLessonRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lesson, error) {
	found, _ := r.FindAll(ctx, specs...)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeLessonRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lesson, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Lesson
	for _, l := range query(r.s.lessons, specs, matchLesson, cmpLesson) {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeLessonRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

type fakeProgressRepo struct{ s *fakeStore }

func matchProgress(p *entity.LessonProgress, spec specification.Specification) bool {
	switch sp := spec.(type) {
	case specification.UserOwnedBy:
		return p.UserId == sp.UserID
	case specification.Completed:
		return p.Percent >= 100
	}
	return unsupported(spec)
}

func cmpProgress(a, b *entity.LessonProgress, field string) int {
	panic("fake store: unsupported progress order " + field)
}

func (r *fakeProgressRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LessonProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.LessonProgress
	for _, p := range query(r.s.progress, specs, matchProgress, cmpProgress) {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProgressRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	found, _ := r.FindAll(ctx, specs...)
	return int64(len(found)), nil
}

func (r *fakeProgressRepo) row(userID, lessonID uuid.UUID) *entity.LessonProgress {
	for _, p := range r.s.progress {
		if p.UserId == userID && p.LessonId == lessonID {
			return p
		}
	}
	now := time.Now()
	p := &entity.LessonProgress{Id: uuid.New(), UserId: userID, LessonId: lessonID, CreatedAt: now, UpdatedAt: now}
	r.s.progress = append(r.s.progress, p)
	return p
}

func (r *fakeProgressRepo) Lock(ctx context.Context, userID, lessonID uuid.UUID) (*entity.LessonProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *r.row(userID, lessonID)
	return &cp, nil
}

func (r *fakeProgressRepo) UpsertMax(ctx context.Context, userID, lessonID uuid.UUID, percent int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := r.row(userID, lessonID)
	if percent > p.Percent {
		p.Percent = percent
	}
	if p.Percent >= 100 && p.CompletedAt == nil {
		now := time.Now()
		p.CompletedAt = &now
	}
	return p.Percent, nil
}

func matchOwned(userID uuid.UUID, spec specification.Specification) bool {
	if sp, ok := spec.(specification.UserOwnedBy); ok {
		return userID == sp.UserID
	}
	return unsupported(spec)
}

func cmpCreatedAt(a, b time.Time, field string) int {
	if field != "created_at" {
		panic("fake store: unsupported order " + field)
	}
	return cmpTime(a, b)
}

type fakeTradeRepo struct{ s *fakeStore }

func (r *fakeTradeRepo) Create(ctx context.Context, trade *entity.Trade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *trade
	r.s.trades = append(r.s.trades, &cp)
	return nil
}

func (r *fakeTradeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return query(r.s.trades, specs,
		func(t *entity.Trade, s specification.Specification) bool { return matchOwned(t.UserId, s) },
		func(a, b *entity.Trade, f string) int { return cmpCreatedAt(a.CreatedAt, b.CreatedAt, f) },
	), nil
}

type fakeActivityRepo struct{ s *fakeStore }

func (r *fakeActivityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *activity
	r.s.activities = append(r.s.activities, &cp)
	return nil
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return query(r.s.activities, specs,
		func(a *entity.Activity, s specification.Specification) bool { return matchOwned(a.UserId, s) },
		func(a, b *entity.Activity, f string) int { return cmpCreatedAt(a.CreatedAt, b.CreatedAt, f) },
	), nil
}

type fakeBadgeRepo struct{ s *fakeStore }

func (r *fakeBadgeRepo) Add(ctx context.Context, userID uuid.UUID, badge string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.badges {
		if b.UserId == userID && b.Badge == badge {
			return false, nil
		}
	}
	r.s.badges = append(r.s.badges, &entity.UserBadge{
		Id:        uuid.New(),
		UserId:    userID,
		Badge:     badge,
		CreatedAt: time.Now(),
	})
	return true, nil
}

func (r *fakeBadgeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserBadge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return query(r.s.badges, specs,
		func(b *entity.UserBadge, s specification.Specification) bool { return matchOwned(b.UserId, s) },
		func(a, b *entity.UserBadge, f string) int { return cmpCreatedAt(a.CreatedAt, b.CreatedAt, f) },
	), nil
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, userID uuid.UUID, evts ...events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, evts...)
}

func (p *recordingPublisher) events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.got...)
}

func (p *recordingPublisher) types() []events.Type {
	var out []events.Type
	for _, e := range p.events() {
		out = append(out, e.EventType())
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = nil
}

type recordingRanks struct {
	mu    sync.Mutex
	queue []uuid.UUID
}

func (r *recordingRanks) Enqueue(ctx context.Context, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queue = append(r.queue, userID)
}

func (r *recordingRanks) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
