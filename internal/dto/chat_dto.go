package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	ConversationId *uuid.UUID      `json:"conversation_id"`
	Message        string          `json:"message"`
	File           *MessageFileDTO `json:"file,omitempty"`
}

// MessageFileDTO carries an optional attachment inline with the message.
// Content is base64, with or without a data-URI prefix.
type MessageFileDTO struct {
	Name    string `json:"name" validate:"required"`
	Type    string `json:"type" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type ChatMessageDTO struct {
	Id         uuid.UUID      `json:"id"`
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Attachment *AttachmentDTO `json:"attachment,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type AttachmentDTO struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
}

type SendMessageResponse struct {
	ConversationId uuid.UUID       `json:"conversation_id"`
	Title          string          `json:"title"`
	Sent           *ChatMessageDTO `json:"sent"`
	Reply          *ChatMessageDTO `json:"reply"`
}

type ConversationResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetHistoryResponse struct {
	ConversationId uuid.UUID        `json:"conversation_id"`
	Title          string           `json:"title"`
	Messages       []ChatMessageDTO `json:"messages"`
}

type DeleteConversationRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}
