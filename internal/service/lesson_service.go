package service

import (
	"context"
	"fmt"
	"time"

	"finquest-be/internal/dto"
	"finquest-be/internal/entity"
	"finquest-be/internal/eventbus"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

type ILessonService interface {
	List(ctx context.Context, userId uuid.UUID) ([]*dto.LessonResponse, error)
	UpdateProgress(ctx context.Context, userId, lessonId uuid.UUID, percent int) (*dto.ProgressResponse, error)
}

type lessonService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  eventbus.Publisher
	ranks      RankScheduler
	now        func() time.Time
}

func NewLessonService(uowFactory unitofwork.RepositoryFactory, publisher eventbus.Publisher, ranks RankScheduler) ILessonService {
	return &lessonService{
		uowFactory: uowFactory,
		publisher:  publisher,
		ranks:      ranks,
		now:        time.Now,
	}
}

func (s *lessonService) List(ctx context.Context, userId uuid.UUID) ([]*dto.LessonResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	lessons, err := uow.LessonRepository().FindAll(ctx,
		specification.OrderBy{Field: "position"},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	progresses, err := uow.LessonProgressRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	progressByLesson := make(map[uuid.UUID]int, len(progresses))
	for _, p := range progresses {
		progressByLesson[p.LessonId] = p.Percent
	}

	res := make([]*dto.LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		res = append(res, &dto.LessonResponse{
			Id:          l.Id,
			Slug:        l.Slug,
			Title:       l.Title,
			Description: l.Description,
			Progress:    progressByLesson[l.Id],
		})
	}
	return res, nil
}

// UpdateProgress stores max(previous, percent). XP and badges are granted only on the
// transition into completion, so repeated or out-of-order updates never grant twice.
func (s *lessonService) UpdateProgress(ctx context.Context, userId, lessonId uuid.UUID, percent int) (*dto.ProgressResponse, error) {
	now := s.now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	lesson, err := uow.LessonRepository().FindOne(ctx, specification.ByID{ID: lessonId})
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	previous, err := uow.LessonProgressRepository().Lock(ctx, userId, lessonId)
	if err != nil {
		return nil, fmt.Errorf("lock progress: %w", err)
	}

	stored, err := uow.LessonProgressRepository().UpsertMax(ctx, userId, lessonId, percent)
	if err != nil {
		return nil, fmt.Errorf("store progress: %w", err)
	}

	res := &dto.ProgressResponse{
		LessonId:    lessonId,
		Percent:     stored,
		BadgesAdded: []string{},
	}
	completedNow := !previous.Completed() && stored >= 100

	var (
		totalXP        int
		completionText = fmt.Sprintf("Completed lesson: %s", lesson.Title)
	)
	if completedNow {
		totalXP, err = uow.UserRepository().IncrementXP(ctx, userId, LessonCompletionXP)
		if err != nil {
			return nil, fmt.Errorf("grant lesson xp: %w", err)
		}
		res.XPAdded = LessonCompletionXP

		if err := uow.ActivityRepository().Create(ctx, &entity.Activity{
			Id:        uuid.New(),
			UserId:    userId,
			Kind:      entity.ActivityLesson,
			Text:      completionText,
			XPDelta:   LessonCompletionXP,
			Meta:      map[string]interface{}{"lessonId": lessonId.String()},
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("record lesson activity: %w", err)
		}

		badges, err := s.awardBadges(ctx, uow, userId, now)
		if err != nil {
			return nil, err
		}
		res.BadgesAdded = badges

		if err := touchStreak(ctx, uow, userId, now); err != nil {
			return nil, fmt.Errorf("touch streak: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	evts := []events.Event{events.NewLessonProgress(lessonId.String(), stored)}
	if completedNow {
		evts = append(evts,
			events.NewXPChanged(LessonCompletionXP, events.SourceLesson).WithTotal(totalXP),
			events.NewActivityLogged(completionText).WithXP(LessonCompletionXP),
		)
		for _, b := range res.BadgesAdded {
			evts = append(evts,
				events.NewBadgeUnlocked(b),
				events.NewActivityLogged(badgeActivityText(b)).WithXP(0),
			)
		}
	}
	s.publisher.Publish(context.WithoutCancel(ctx), userId, evts...)

	if completedNow {
		s.ranks.Enqueue(ctx, userId)
	}
	return res, nil
}

func badgeActivityText(badge string) string {
	return fmt.Sprintf("Unlocked badge: %s", badge)
}

// awardBadges adds every milestone badge the user just reached and returns the ones that were new.
func (s *lessonService) awardBadges(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, now time.Time) ([]string, error) {
	completed, err := uow.LessonProgressRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Completed{},
	)
	if err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}
	total, err := uow.LessonRepository().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}

	added := []string{}
	for _, badge := range milestoneBadges(completed, total) {
		isNew, err := uow.UserBadgeRepository().Add(ctx, userId, badge)
		if err != nil {
			return nil, fmt.Errorf("add badge %q: %w", badge, err)
		}
		if !isNew {
			continue
		}
		added = append(added, badge)

		if err := uow.ActivityRepository().Create(ctx, &entity.Activity{
			Id:        uuid.New(),
			UserId:    userId,
			Kind:      entity.ActivityBadge,
			Text:      badgeActivityText(badge),
			Meta:      map[string]interface{}{"badge": badge},
			CreatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("record badge activity: %w", err)
		}
	}
	return added, nil
}
