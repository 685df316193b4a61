package service

import (
	"context"
	"testing"
	"time"

	"finquest-be/internal/dto"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTradeGrantsXPAndPublishes(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	ranks := &recordingRanks{}
	user := store.addUser("ada", 100)

	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := NewTradeService(store, pub, ranks).(*tradeService)
	svc.now = func() time.Time { return now }

	res, err := svc.Create(context.Background(), user.Id, &dto.CreateTradeRequest{
		Symbol: " aapl ",
		Side:   "BUY",
		Price:  189.5,
		Qty:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, now, res.CreatedAt)

	got := pub.events()
	require.Len(t, got, 3)
	assert.Equal(t, events.NewTradeRecorded(res.Id.String(), "AAPL", events.SideBuy, 189.5, 3, now), got[0])
	assert.Equal(t, events.NewXPChanged(TradeXP, events.SourceTrade).WithTotal(112), got[1])
	assert.Equal(t, events.NewActivityLogged("Placed a paper trade: AAPL").WithXP(TradeXP), got[2])

	stored := store.user(user.Id)
	assert.Equal(t, 112, stored.XP)
	assert.Equal(t, 1, stored.Streak)

	activities := store.activitiesOf(user.Id)
	require.Len(t, activities, 1)
	assert.Equal(t, TradeXP, activities[0].XPDelta)
	assert.Equal(t, 1, ranks.count())
}

func TestListTradesNewestFirst(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("ada", 0)
	other := store.addUser("grace", 0)

	svc := NewTradeService(store, &recordingPublisher{}, &recordingRanks{}).(*tradeService)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, symbol := range []string{"AAPL", "MSFT", "TSLA"} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(context.Background(), user.Id, &dto.CreateTradeRequest{Symbol: symbol, Side: "SELL", Price: 1, Qty: 1})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), other.Id, &dto.CreateTradeRequest{Symbol: "NVDA", Side: "BUY", Price: 1, Qty: 1})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), user.Id)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "TSLA", list[0].Symbol)
	assert.Equal(t, "AAPL", list[2].Symbol)
}

func TestCreateTradeUnknownUser(t *testing.T) {
	pub := &recordingPublisher{}
	ranks := &recordingRanks{}
	svc := NewTradeService(newFakeStore(), pub, ranks)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateTradeRequest{Symbol: "AAPL", Side: "BUY", Price: 1, Qty: 1})
	assert.Error(t, err)
	assert.Empty(t, pub.events())
	assert.Zero(t, ranks.count())
}
