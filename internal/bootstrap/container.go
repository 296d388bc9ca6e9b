package bootstrap

import (
	"context"
	"log"
	"time"

	"investchat-be/internal/config"
	"investchat-be/internal/controller"
	"investchat-be/internal/handler"
	"investchat-be/internal/pkg/logger"
	"investchat-be/internal/pkg/mailer"
	"investchat-be/internal/repository/memory"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/internal/service"
	"investchat-be/internal/websocket"
	"investchat-be/pkg/geoip"
	"investchat-be/pkg/reply"
	"investchat-be/pkg/storage"

	pktNats "investchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	UserController  controller.IUserController
	ChatController  controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Domain Collaborators
	replyGateway := reply.NewHTTPGateway(cfg.Chat.WebhookURL)
	replyGateway.Client.Timeout = time.Duration(cfg.Chat.WebhookTimeout) * time.Second

	uploader := storage.NewClient(
		cfg.Storage.ProjectURL,
		cfg.Storage.Bucket,
		cfg.Storage.ServiceKey,
	)

	geoResolver := geoip.NewClient(cfg.Keys.GeoIPBaseURL)
	sendGate := memory.NewSendGate()

	// 4. Services
	loginPublisher := service.NewPublisherService(cfg.Keys.LoginRecordTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.LoginRecordTopic,
		uowFactory,
		geoResolver,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, loginPublisher)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	chatService := service.NewChatService(uowFactory, replyGateway, uploader, sendGate, natsPub)

	// 4.5 Notification System
	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	sysLogger.Info("Bootstrap", "Container initialized", map[string]interface{}{
		"environment": cfg.App.Environment,
		"webhook_set": cfg.Chat.WebhookURL != "",
	})

	// 5. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService),
		UserController:      controller.NewUserController(userService),
		ChatController:      controller.NewChatController(chatService),

		ConsumerService: consumerService,
	}
}
