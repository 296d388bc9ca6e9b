package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeWelcome     = "WELCOME"
	NotificationTypeNewLogin    = "NEW_LOGIN"
	NotificationTypeReplyFailed = "REPLY_FAILED"
)

type Notification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Type      string
	Title     string
	Body      string
	Metadata  map[string]any
	IsRead    bool
	CreatedAt time.Time
}
