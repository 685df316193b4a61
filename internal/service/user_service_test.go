package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"finquest-be/internal/dto"
	"finquest-be/internal/entity"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfilePublishesOnlyChangedFields(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	user := store.addUser("ada", 0)
	svc := NewUserService(store, pub)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.UpdateProfileRequest
		want []events.Event
	}{
		{
			name: "same name is not a change",
			req:  dto.UpdateProfileRequest{Name: strPtr("ada")},
		},
		{
			name: "empty avatar leaves it unchanged",
			req:  dto.UpdateProfileRequest{AvatarURL: strPtr("")},
		},
		{
			name: "avatar only",
			req:  dto.UpdateProfileRequest{Name: strPtr("ada"), AvatarURL: strPtr("https://cdn.example.com/a.png")},
			want: []events.Event{events.ProfileUpdated{}.WithAvatarURL("https://cdn.example.com/a.png")},
		},
		{
			name: "name and avatar",
			req:  dto.UpdateProfileRequest{Name: strPtr("Ada L."), AvatarURL: strPtr("https://cdn.example.com/b.png")},
			want: []events.Event{events.ProfileUpdated{}.WithName("Ada L.").WithAvatarURL("https://cdn.example.com/b.png")},
		},
		{
			name: "repeat of the stored values",
			req:  dto.UpdateProfileRequest{Name: strPtr("Ada L."), AvatarURL: strPtr("https://cdn.example.com/b.png")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub.reset()
			_, err := svc.UpdateProfile(ctx, user.Id, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pub.events())
		})
	}

	stored := store.user(user.Id)
	assert.Equal(t, "Ada L.", stored.Name)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/b.png", *stored.AvatarURL)
}

func TestUpdateProfileReturnsUpdatedUser(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("ada", 40)
	svc := NewUserService(store, &recordingPublisher{})

	res, err := svc.UpdateProfile(context.Background(), user.Id, &dto.UpdateProfileRequest{Name: strPtr("Countess")})
	require.NoError(t, err)
	assert.Equal(t, "Countess", res.Name)
	assert.Equal(t, 40, res.XP)

	_, err = svc.UpdateProfile(context.Background(), uuid.New(), &dto.UpdateProfileRequest{Name: strPtr("Nobody")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetStatsRecentActivities(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("ada", 300)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < RecentActivityLimit+5; i++ {
		store.activities = append(store.activities, &entity.Activity{
			Id:        uuid.New(),
			UserId:    user.Id,
			Kind:      entity.ActivityTrade,
			Text:      fmt.Sprintf("trade %d", i),
			XPDelta:   TradeXP,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	store.badges = append(store.badges,
		&entity.UserBadge{UserId: user.Id, Badge: events.BadgeFirstLesson, CreatedAt: base},
		&entity.UserBadge{UserId: user.Id, Badge: events.BadgeFastLearner, CreatedAt: base.Add(time.Hour)},
	)

	stats, err := NewUserService(store, &recordingPublisher{}).GetStats(context.Background(), user.Id)
	require.NoError(t, err)
	assert.Equal(t, 300, stats.XP)
	assert.Equal(t, 100, stats.RankPercent)
	assert.Equal(t, []string{events.BadgeFastLearner, events.BadgeFirstLesson}, stats.Badges)
	require.Len(t, stats.Activities, RecentActivityLimit)
	assert.Equal(t, "trade 14", stats.Activities[0].Text)
	assert.Equal(t, "trade 5", stats.Activities[RecentActivityLimit-1].Text)
}

func TestGetStatsEmptyCollections(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("ada", 0)

	stats, err := NewUserService(store, &recordingPublisher{}).GetStats(context.Background(), user.Id)
	require.NoError(t, err)
	assert.NotNil(t, stats.Badges)
	assert.NotNil(t, stats.Activities)
	assert.Empty(t, stats.Activities)
}
