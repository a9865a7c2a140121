package bootstrap

import (
	"context"
	"log"
	"time"

	"booklog-be/internal/config"
	"booklog-be/internal/controller"
	"booklog-be/internal/pkg/lock"
	"booklog-be/internal/pkg/logger"
	"booklog-be/internal/pkg/serverutils"
	"booklog-be/internal/repository/unitofwork"
	"booklog-be/internal/service"
	pktNats "booklog-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventsTopic is the in-process topic every domain event goes through.
const EventsTopic = "booklog.events"

// Infrastructure holds the external resources the services depend on.
// Anything optional (Redis, NATS) is replaced by an in-process fallback.
type Infrastructure struct {
	Logger      logger.ILogger
	AuditLogger logger.ILogger
	Locker      lock.Locker
	PubSub      *gochannel.GoChannel
	Stream      service.EventStream

	closers []func()
}

func NewInfrastructure(cfg *config.Config) *Infrastructure {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	infra := &Infrastructure{
		Logger:      sysLogger,
		AuditLogger: logger.NewIsolatedLogger(cfg.App.AuditLogFilePath),
		Locker:      lock.NewMemoryLocker(),
		PubSub:      gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false)),
	}

	// Redis
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process lock", err)
			_ = rdb.Close()
		} else {
			infra.Locker = lock.NewRedisLocker(rdb)
			infra.closers = append(infra.closers, func() { _ = rdb.Close() })
		}
	}

	// NATS
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			infra.Stream = natsPub
			infra.closers = append(infra.closers, natsPub.Close)
		}
	}

	return infra
}

func (i *Infrastructure) Close() {
	if i.PubSub != nil {
		_ = i.PubSub.Close()
	}
	for _, closeFn := range i.closers {
		closeFn()
	}
	_ = i.Logger.Sync()
	_ = i.AuditLogger.Sync()
}

type Container struct {
	// Controllers
	BookController controller.IBookController
	MemoController controller.IMemoController
	AuthController controller.IAuthController

	Sessions *serverutils.SessionManager
	Logger   logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config, infra *Infrastructure) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// 2. Event Bus
	publisherService := service.NewPublisherService(EventsTopic, infra.PubSub, infra.Stream, infra.Logger)
	consumerService := service.NewAuditConsumerService(infra.PubSub, EventsTopic, infra.AuditLogger, infra.Logger)

	// 3. Services
	bookService := service.NewBookService(uowFactory, publisherService, infra.Logger)
	memoService := service.NewMemoService(uowFactory, publisherService)
	guestService := service.NewGuestService(uowFactory, infra.Locker, publisherService, infra.Logger, service.GuestConfig{
		Email:    cfg.Guest.Email,
		FullName: cfg.Guest.FullName,
	})
	authService := service.NewAuthService(uowFactory, publisherService, cfg.Guest.Email)

	sessions := serverutils.NewSessionManager(
		cfg.Auth.JwtSecret,
		cfg.Auth.SessionCookieName,
		cfg.Auth.SessionTTL,
		cfg.Auth.SecureCookie,
	)

	// 4. Controllers
	return &Container{
		BookController: controller.NewBookController(bookService, cfg.Auth.LoginPath),
		MemoController: controller.NewMemoController(memoService, cfg.Auth.LoginPath),
		AuthController: controller.NewAuthController(authService, guestService, sessions, cfg.Auth.LoginPath),

		Sessions: sessions,
		Logger:   infra.Logger,

		ConsumerService: consumerService,
	}
}
