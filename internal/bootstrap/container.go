package bootstrap

import (
	"context"
	"fmt"
	"time"

	"library-management-be/internal/config"
	"library-management-be/internal/controller"
	"library-management-be/internal/handler"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/pkg/mailer"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/repository/memory"
	"library-management-be/internal/repository/readmodel"
	"library-management-be/internal/repository/redisstore"
	"library-management-be/internal/repository/unitofwork"
	"library-management-be/internal/service"
	"library-management-be/pkg/clock"
	"library-management-be/pkg/database"
	pktNats "library-management-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const categoryCacheTTL = 5 * time.Minute

type Container struct {
	Logger        logger.ILogger
	JwtMiddleware fiber.Handler

	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	UserController     controller.IUserController
	BookController     controller.IBookController
	CategoryController controller.ICategoryController
	ReportController   controller.IReportController
	AdminController    controller.IAdminController

	NotificationHandler *handler.NotificationHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	EventAudit      *service.EventAuditService // nil without NATS

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.Messaging.AuditLogPath)
	clk := clock.System()

	c := &Container{Logger: sysLogger}

	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return nil, fmt.Errorf("sqlx: %w", err)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var bus service.EventBus
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			bus = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS subscriber unavailable, event audit disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.EventAudit = service.NewEventAuditService(natsSub, auditLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	blocklist := newTokenBlocklist(cfg, sysLogger, c)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret, blocklist)

	// 4. Services
	tokens := service.TokenSettings{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.TokenTTL}
	publisherService := service.NewPublisherService(cfg.Messaging.UserRegisteredTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Messaging.UserRegisteredTopic, emailService, sysLogger)

	eventPublisher := service.NewEventPublisher(bus, sysLogger)
	sink := service.NewNotificationSink()

	authService := service.NewAuthService(uowFactory, tokens, blocklist, publisherService, clk, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, service.GoogleSettings{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	}, tokens, publisherService, clk, sysLogger)
	userService := service.NewUserService(uowFactory, sysLogger)
	loanService := service.NewLoanService(uowFactory, clk, cfg.Loan.Period, sink, eventPublisher, auditLogger)
	catalogService := service.NewCatalogService(uowFactory, memory.NewCategoryCache(categoryCacheTTL), cfg.Loan.DefaultFinePerDay, sysLogger)
	notificationService := service.NewNotificationService(uowFactory, clk)
	reportService := service.NewReportService(uowFactory, readmodel.NewOverdueLoans(sqlxDB), clk)

	// 5. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.OAuthController = controller.NewOAuthController(oauthService, cfg.App.ClientURL, sysLogger)
	c.UserController = controller.NewUserController(userService, loanService)
	c.BookController = controller.NewBookController(catalogService, loanService)
	c.CategoryController = controller.NewCategoryController(catalogService)
	c.ReportController = controller.NewReportController(reportService)
	c.AdminController = controller.NewAdminController(userService)
	c.NotificationHandler = handler.NewNotificationHandler(notificationService, sysLogger)

	c.closers = append(c.closers, func() {
		_ = auditLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c, nil
}

// newTokenBlocklist shares revocations through Redis when configured and
// falls back to process memory otherwise.
func newTokenBlocklist(cfg *config.Config, log logger.ILogger, c *Container) serverutils.TokenBlocklist {
	if cfg.App.RedisURL == "" {
		log.Info("BOOTSTRAP", "REDIS_URL not set, token blocklist kept in memory", nil)
		return memory.NewTokenBlocklist()
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unreachable, token blocklist kept in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return memory.NewTokenBlocklist()
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return redisstore.NewTokenBlocklist(rdb)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
