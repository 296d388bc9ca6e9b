package unitofwork

import (
	"context"

	"investchat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	ChatMessageRepository() contract.ChatMessageRepository
	AccessLogRepository() contract.AccessLogRepository
	NotificationRepository() contract.NotificationRepository
}
