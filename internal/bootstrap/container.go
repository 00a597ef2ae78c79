package bootstrap

import (
	"context"
	"net/http"
	"time"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/controller"
	"smart-notes-be/internal/pkg/jwtauth"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/pkg/mailer"
	"smart-notes-be/internal/pkg/serverutils"
	"smart-notes-be/internal/repository/contract"
	"smart-notes-be/internal/repository/implementation"
	"smart-notes-be/internal/repository/memory"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/internal/service"
	"smart-notes-be/pkg/digest"
	"smart-notes-be/pkg/llm/huggingface"
	pktNats "smart-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	NoteController controller.INoteController
	UserController controller.IUserController
	AuthController controller.IAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	activityLogger := logger.NewIsolatedLogger(cfg.App.ActivityLogPath)

	c := &Container{Logger: sysLogger}

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			sysLogger,
		)
	} else {
		emailService = mailer.NewNoopEmailService()
		sysLogger.Info("BOOT", "SMTP_HOST not set, welcome emails disabled", nil)
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var relay service.EventRelay
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if natsPub != nil {
			relay = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		if err != nil {
			sysLogger.Warn("BOOT", "NATS publisher not fully available", map[string]interface{}{"error": err.Error()})
		}
	}

	revocations := newTokenRevocationRepository(cfg, sysLogger)

	// 4. Tag & Summary Engine
	var remote digest.RemoteSummarizer
	if cfg.Keys.HuggingFace != "" {
		remote = huggingface.NewSummarizationClient(
			cfg.Keys.HuggingFace,
			cfg.Ai.SummaryBaseURL,
			cfg.Ai.SummaryModel,
			&http.Client{Timeout: cfg.Ai.SummaryTimeout + 5*time.Second},
		)
	} else {
		sysLogger.Warn("BOOT", "HF_API_KEY not set, summaries will be truncations", nil)
	}
	engine := digest.New(digest.Config{
		MinLength:      cfg.Ai.SummaryMinLength,
		MaxLength:      cfg.Ai.SummaryMaxLength,
		FallbackLength: cfg.Ai.SummaryFallbackLength,
		Timeout:        cfg.Ai.SummaryTimeout,
	}, remote, sysLogger)

	// 5. Services
	jwtManager := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	publisherService := service.NewPublisherService(pubSub, cfg.App.EventsTopic)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventsTopic, relay, activityLogger, sysLogger)

	authService := service.NewAuthService(uowFactory, jwtManager, revocations, emailService, sysLogger)
	userService := service.NewUserService(uowFactory)
	noteService := service.NewNoteService(uowFactory, publisherService, engine, sysLogger)

	// 6. Controllers
	authMiddleware := serverutils.NewJwtMiddleware(jwtManager, revocations)

	c.AuthController = controller.NewAuthController(authService, authMiddleware)
	c.UserController = controller.NewUserController(userService, authMiddleware)
	c.NoteController = controller.NewNoteController(noteService, authMiddleware)

	return c
}

// newTokenRevocationRepository prefers Redis and falls back to process memory
// when Redis is not configured or does not answer.
func newTokenRevocationRepository(cfg *config.Config, log logger.ILogger) contract.TokenRevocationRepository {
	if cfg.App.RedisURL == "" {
		log.Info("BOOT", "REDIS_URL not set, using in-memory token revocation", nil)
		return memory.NewTokenRevocationRepository()
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOT", "Redis unreachable, using in-memory token revocation", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return memory.NewTokenRevocationRepository()
	}

	return implementation.NewRedisTokenRevocationRepository(rdb)
}

// Close releases the event bus and the NATS connection.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
