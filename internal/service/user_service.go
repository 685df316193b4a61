package service

import (
	"context"
	"strings"

	"finquest-be/internal/dto"
	"finquest-be/internal/entity"
	"finquest-be/internal/eventbus"
	"finquest-be/internal/repository/specification"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

type IUserService interface {
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.SafeUser, error)
	GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  eventbus.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, publisher eventbus.Publisher) IUserService {
	return &userService{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func toSafeUser(u *entity.User) *dto.SafeUser {
	avatarURL := ""
	if u.AvatarURL != nil {
		avatarURL = *u.AvatarURL
	}
	return &dto.SafeUser{
		Id:          u.Id,
		Name:        u.Name,
		Email:       u.Email,
		AvatarURL:   avatarURL,
		XP:          u.XP,
		Streak:      u.Streak,
		RankPercent: u.RankPercent,
		CreatedAt:   u.CreatedAt,
	}
}

// profileChanges compares the request with the stored user and keeps only real changes.
// An empty avatarUrl means "leave as is".
func profileChanges(user *entity.User, req *dto.UpdateProfileRequest) events.ProfileUpdated {
	var changes events.ProfileUpdated
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" && name != user.Name {
			changes = changes.WithName(name)
		}
	}
	if req.AvatarURL != nil && *req.AvatarURL != "" {
		if user.AvatarURL == nil || *user.AvatarURL != *req.AvatarURL {
			changes = changes.WithAvatarURL(*req.AvatarURL)
		}
	}
	return changes
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.SafeUser, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	changes := profileChanges(user, req)
	if changes.Empty() {
		return toSafeUser(user), nil
	}

	if err := uow.UserRepository().UpdateProfile(ctx, userId, changes.Name, changes.AvatarURL); err != nil {
		return nil, err
	}
	if changes.Name != nil {
		user.Name = *changes.Name
	}
	if changes.AvatarURL != nil {
		user.AvatarURL = changes.AvatarURL
	}

	s.publisher.Publish(context.WithoutCancel(ctx), userId, changes)
	return toSafeUser(user), nil
}

func (s *userService) GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	badges, err := uow.UserBadgeRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: RecentActivityLimit},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.StatsResponse{
		XP:          user.XP,
		Streak:      user.Streak,
		RankPercent: user.RankPercent,
		Badges:      make([]string, 0, len(badges)),
		Activities:  make([]dto.ActivityResponse, 0, len(activities)),
	}
	for _, b := range badges {
		res.Badges = append(res.Badges, b.Badge)
	}
	for _, a := range activities {
		res.Activities = append(res.Activities, dto.ActivityResponse{
			Text:      a.Text,
			XPDelta:   a.XPDelta,
			CreatedAt: a.CreatedAt,
		})
	}
	return res, nil
}
