package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ConversationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role           string         `gorm:"type:text;not null"`
	Content        string         `gorm:"type:text;not null"`
	AttachmentInfo datatypes.JSON `gorm:"type:jsonb"` // {name, type, url?}; null when no attachment
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
