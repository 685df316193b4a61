package bootstrap

import (
	"context"
	"time"

	"finquest-be/internal/config"
	"finquest-be/internal/controller"
	"finquest-be/internal/eventbus"
	"finquest-be/internal/handler"
	"finquest-be/internal/pkg/logger"
	"finquest-be/internal/pkg/mailer"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/repository/unitofwork"
	"finquest-be/internal/service"

	pktNats "finquest-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger
	Tokens *serverutils.TokenManager

	// Controllers
	AuthController        controller.IAuthController
	UserController        controller.IUserController
	LessonController      controller.ILessonController
	TradeController       controller.ITradeController
	LeaderboardController controller.ILeaderboardController

	// Realtime
	Bus          *eventbus.Bus
	Relay        *eventbus.RedisRelay
	EventHandler *handler.EventHandler

	// Background Services (Exposed for main.go to run)
	RankService service.IRankService

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	rtLogger := logger.NewIsolatedLogger(cfg.Realtime.LogFilePath)
	tokens := serverutils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	c := &Container{Logger: sysLogger, Tokens: tokens}

	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.AppURL,
			sysLogger,
		)
	}

	// 2. Realtime bus and its mirrors
	bus := eventbus.NewBus(rtLogger, eventbus.WithMaxSubscribersPerUser(cfg.Realtime.MaxSubscribersPerUser))
	c.Bus = bus

	var sinks []eventbus.Sink
	if cfg.App.RedisURL != "" {
		if rdb := connectRedis(cfg.App.RedisURL, sysLogger); rdb != nil {
			c.Relay = eventbus.NewRedisRelay(rdb, bus, cfg.Realtime.RelayChannel, rtLogger)
			sinks = append(sinks, c.Relay)
			c.closers = append(c.closers, rdb.Close)
		}
	}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS mirror disabled", map[string]interface{}{"error": err.Error()})
		} else {
			sinks = append(sinks, natsPub)
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}
	dispatcher := eventbus.NewDispatcher(bus, rtLogger, sinks...)

	// 3. Background jobs
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, pubSub.Close)
	rankService := service.NewRankService(pubSub, cfg.App.RankTopic, uowFactory, sysLogger)
	c.RankService = rankService

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokens, emailService, rankService, sysLogger)
	userService := service.NewUserService(uowFactory, dispatcher)
	lessonService := service.NewLessonService(uowFactory, dispatcher, rankService)
	tradeService := service.NewTradeService(uowFactory, dispatcher, rankService)
	leaderboardService := service.NewLeaderboardService(uowFactory)

	// 5. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService)
	c.LessonController = controller.NewLessonController(lessonService)
	c.TradeController = controller.NewTradeController(tradeService)
	c.LeaderboardController = controller.NewLeaderboardController(leaderboardService)
	c.EventHandler = handler.NewEventHandler(bus, tokens, cfg.Realtime.KeepAlive, rtLogger)

	return c
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Bootstrap", "Redis relay disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// Close ends every live stream, then releases the mirrors and the job queue.
func (c *Container) Close() {
	c.Bus.Close()
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("Bootstrap", "Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}
