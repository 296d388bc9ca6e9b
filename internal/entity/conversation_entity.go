package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ChatMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Role           string
	Content        string
	Attachment     *Attachment
	CreatedAt      time.Time
}

// Attachment is the durable descriptor persisted with a message. The
// client-side transient preview is never stored, only name, type and the
// bucket URL (when the upload succeeded).
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}
