package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"investchat-be/internal/entity"
	"investchat-be/internal/pkg/logger"
	"investchat-be/internal/repository/specification"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/pkg/events"
	pktNats "investchat-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification entity.Notification)
	Broadcast(notification entity.Notification)
}

// NotificationService turns bus events into user-facing notifications:
// persisted to the inbox and pushed over websocket.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects include the stream prefix
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	notif := s.buildNotification(typeCode, event)
	if notif == nil {
		// Not every event has a user-facing rendering
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notif); err != nil {
		s.logger.Error("NotificationService", "Failed to persist notification", map[string]interface{}{
			"error": err.Error(),
			"type":  typeCode,
		})
		// Push anyway; the inbox row is a convenience, not a contract
	}

	if s.delivery != nil {
		s.delivery.Send(notif.UserId, *notif)
	}

	return nil
}

func (s *NotificationService) buildNotification(typeCode string, event events.Event) *entity.Notification {
	payload := event.Payload()

	userId, ok := extractUserId(payload)
	if !ok {
		return nil
	}

	base := &entity.Notification{
		Id:        uuid.New(),
		UserId:    userId,
		Metadata:  payload,
		CreatedAt: time.Now(),
	}

	switch typeCode {
	case events.TypeUserRegistered:
		base.Type = entity.NotificationTypeWelcome
		base.Title = "Welcome to InvestChat"
		base.Body = "Confirm your email to start chatting with your investment assistant."
	case events.TypeUserLogin:
		device, _ := payload["device"].(string)
		base.Type = entity.NotificationTypeNewLogin
		base.Title = "New sign-in to your account"
		base.Body = fmt.Sprintf("A new sign-in was detected from: %s", device)
	case events.TypeReplyFailed:
		base.Type = entity.NotificationTypeReplyFailed
		base.Title = "Assistant unavailable"
		base.Body = "We could not reach the assistant for your last message. Please try again."
	default:
		return nil
	}

	return base
}

func extractUserId(payload map[string]interface{}) (uuid.UUID, bool) {
	raw, ok := payload["user_id"]
	if !ok {
		return uuid.Nil, false
	}
	switch v := raw.(type) {
	case uuid.UUID:
		return v, true
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	default:
		return uuid.Nil, false
	}
}

// GetNotifications returns the newest notifications for the user's inbox.
func (s *NotificationService) GetNotifications(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: 0},
	)
}

func (s *NotificationService) MarkRead(ctx context.Context, userId, notificationId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	// Ownership check before the write
	items, err := uow.NotificationRepository().FindAll(ctx,
		specification.ByID{ID: notificationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("notification not found")
	}
	return uow.NotificationRepository().MarkRead(ctx, notificationId)
}
