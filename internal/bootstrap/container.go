package bootstrap

import (
	"context"
	"log"
	"time"

	"recados-be/internal/config"
	"recados-be/internal/controller"
	"recados-be/internal/pkg/cache"
	"recados-be/internal/pkg/hashing"
	"recados-be/internal/pkg/logger"
	"recados-be/internal/pkg/mailer"
	"recados-be/internal/pkg/storage"
	"recados-be/internal/pkg/token"
	"recados-be/internal/repository/unitofwork"
	"recados-be/internal/service"
	"recados-be/internal/websocket"
	"recados-be/pkg/events"

	pktNats "recados-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController   controller.IAuthController
	PersonController controller.IPersonController
	NoteController   controller.INoteController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Realtime
	WebSocketHub     *websocket.Hub
	WebSocketHandler *websocket.Handler

	Tokens        *token.Manager
	ResponseCache *cache.ResponseCache
	Logger        logger.ILogger

	// PictureDir is the local directory pictures are written to, empty when
	// they go to S3.
	PictureDir string

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	hasher := hashing.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Audience, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	responseCache := cache.NewResponseCache(cfg.App.CacheSize, cfg.App.CacheTTL)

	pictures, pictureDir := newPictureStorage(ctx, cfg.Storage)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	closers := []func(){func() { _ = pubSub.Close() }}

	// 3. Infrastructure
	// NATS is optional: without it domain events are simply not published.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		streamCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := natsPub.EnsureStream(streamCtx); err != nil {
			log.Printf("[WARN] Failed to ensure NATS stream: %v", err)
		}
		cancel()
		eventPublisher = natsPub
		closers = append(closers, natsPub.Close)
	}

	// Redis fans realtime messages out across instances.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.DeliveryTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.DeliveryTopic,
		emailService,
		wsHub,
		sysLogger,
	)

	personService := service.NewPersonService(uowFactory, hasher, pictures, eventPublisher, sysLogger)
	noteService := service.NewNoteService(
		uowFactory,
		personService,
		service.NewDeliveryNotifier(publisherService),
		eventPublisher,
		sysLogger,
	)
	authService := service.NewAuthService(uowFactory, hasher, tokens, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:   controller.NewAuthController(authService),
		PersonController: controller.NewPersonController(personService),
		NoteController:   controller.NewNoteController(noteService, responseCache),

		ConsumerService: consumerService,

		WebSocketHub:     wsHub,
		WebSocketHandler: websocket.NewHandler(wsHub, tokens),

		Tokens:        tokens,
		ResponseCache: responseCache,
		Logger:        sysLogger,
		PictureDir:    pictureDir,

		closers: closers,
	}
}

// Close releases the broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// newPictureStorage also returns the local directory in use, which is empty
// only when S3 was configured successfully.
func newPictureStorage(ctx context.Context, cfg config.StorageConfig) (storage.PictureStorage, string) {
	if cfg.Driver == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
		})
		if err == nil {
			log.Printf("[INFO] Using picture storage: S3 (%s)", cfg.S3Bucket)
			return s3Storage, ""
		}
		log.Printf("[WARN] Failed to configure S3 storage: %v. Falling back to local disk", err)
	}
	log.Printf("[INFO] Using picture storage: LOCAL (%s)", cfg.LocalDir)
	return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicPath), cfg.LocalDir
}
