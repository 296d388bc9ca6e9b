package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"investchat-be/internal/constant"
	"investchat-be/internal/dto"
	"investchat-be/internal/entity"
	"investchat-be/internal/repository/memory"
	"investchat-be/internal/repository/specification"
	"investchat-be/internal/repository/unitofwork"
	"investchat-be/pkg/events"
	pktNats "investchat-be/pkg/nats"
	"investchat-be/pkg/reply"
	"investchat-be/pkg/storage"

	"github.com/google/uuid"
)

var ErrSendInProgress = errors.New("a message is already being processed, wait for the reply")

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.GetHistoryResponse, error)
	DeleteConversation(ctx context.Context, userId uuid.UUID, req *dto.DeleteConversationRequest) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	replyGateway   reply.Gateway
	uploader       storage.Uploader
	sendGate       *memory.SendGate
	eventPublisher *pktNats.Publisher
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	replyGateway reply.Gateway,
	uploader storage.Uploader,
	sendGate *memory.SendGate,
	eventPublisher *pktNats.Publisher,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		replyGateway:   replyGateway,
		uploader:       uploader,
		sendGate:       sendGate,
		eventPublisher: eventPublisher,
	}
}

// deriveTitle builds a conversation title from the first message. Blank
// or attachment-only messages fall back to the default placeholder.
func deriveTitle(message string) string {
	title := strings.TrimSpace(message)
	if title == "" {
		return constant.DefaultConversationTitle
	}
	runes := []rune(title)
	if len(runes) > constant.ConversationTitleMaxLen {
		return string(runes[:constant.ConversationTitleMaxLen])
	}
	return title
}

func decodeFileContent(content string) ([]byte, error) {
	// Data URIs carry their payload after the "base64," marker
	if strings.HasPrefix(content, "data:") {
		if idx := strings.Index(content, "base64,"); idx >= 0 {
			content = content[idx+len("base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(content)
}

// SendMessage runs the full pipeline: resolve the conversation, persist
// the user message, relay it to the reply gateway and persist the reply.
// A user can only have one send in flight; concurrent calls are rejected
// outright rather than queued.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	// A send needs text or an attachment, never neither
	if strings.TrimSpace(req.Message) == "" && req.File == nil {
		return nil, errors.New("message is empty")
	}

	if !cs.sendGate.TryAcquire(userId) {
		return nil, ErrSendInProgress
	}
	defer cs.sendGate.Release(userId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	// Resolve the conversation exactly once, before any slow work. Every
	// write in this run sticks to this id even if the client switches
	// conversations mid-flight.
	var conversation *entity.Conversation
	if req.ConversationId != nil {
		found, err := uow.ConversationRepository().FindOne(ctx,
			specification.ByID{ID: *req.ConversationId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, errors.New("conversation not found or access denied")
		}
		conversation = found
	} else {
		conversation = &entity.Conversation{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     deriveTitle(req.Message),
			CreatedAt: now,
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, err
		}
	}

	// Attachment upload is best effort. On failure the message still goes
	// through, just without a durable URL.
	var attachment *entity.Attachment
	var fileForGateway *reply.File
	if req.File != nil {
		raw, err := decodeFileContent(req.File.Content)
		if err != nil {
			return nil, errors.New("invalid file content")
		}

		fileForGateway = &reply.File{
			Name:    req.File.Name,
			Type:    req.File.Type,
			Content: raw,
		}

		attachment = &entity.Attachment{
			Name: req.File.Name,
			Type: req.File.Type,
		}

		key := storage.BuildKey(userId, req.File.Name)
		url, err := cs.uploader.Upload(ctx, key, req.File.Type, raw)
		if err != nil {
			fmt.Printf("[WARN] Attachment upload failed for user %s: %v\n", userId, err)
		} else {
			attachment.URL = url
		}
	}

	userMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		UserId:         userId,
		Role:           constant.MessageRoleUser,
		Content:        req.Message,
		Attachment:     attachment,
		CreatedAt:      now,
	}

	cs.saveMessage(ctx, uow, userMessage)

	replyText, err := cs.replyGateway.SendMessage(ctx, &reply.Request{
		UserID:         userId.String(),
		Message:        req.Message,
		ConversationID: conversation.Id,
		File:           fileForGateway,
	})
	if err != nil {
		// The user message stays persisted; only the reply leg failed.
		if cs.eventPublisher != nil {
			event := events.BaseEvent{
				Type: events.TypeReplyFailed,
				Data: map[string]interface{}{
					"user_id":         userId,
					"conversation_id": conversation.Id,
					"error":           err.Error(),
				},
				OccurredAt: time.Now(),
			}
			if pubErr := cs.eventPublisher.Publish(ctx, event); pubErr != nil {
				fmt.Printf("[WARN] Failed to publish REPLY_FAILED event: %v\n", pubErr)
			}
		}
		return nil, fmt.Errorf("assistant is unavailable right now: %w", err)
	}

	assistantMessage := &entity.ChatMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		UserId:         userId,
		Role:           constant.MessageRoleAssistant,
		Content:        replyText,
		CreatedAt:      time.Now(),
	}

	cs.saveMessage(ctx, uow, assistantMessage)

	if cs.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeMessageSent,
			Data: map[string]interface{}{
				"user_id":         userId,
				"conversation_id": conversation.Id,
				"has_attachment":  attachment != nil,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish MESSAGE_SENT event: %v\n", err)
		}
	}

	return &dto.SendMessageResponse{
		ConversationId: conversation.Id,
		Title:          conversation.Title,
		Sent:           messageToDTO(userMessage),
		Reply:          messageToDTO(assistantMessage),
	}, nil
}

// saveMessage persists a chat message and bumps the owning
// conversation's last-activity timestamp. A failed persist is logged,
// not surfaced: the reply flow matters more to the user than the
// durability of this one row.
func (cs *chatService) saveMessage(ctx context.Context, uow unitofwork.UnitOfWork, msg *entity.ChatMessage) {
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		fmt.Printf("[ERROR] Failed to persist %s message in conversation %s: %v\n", msg.Role, msg.ConversationId, err)
		return
	}
	if err := uow.ConversationRepository().Touch(ctx, msg.ConversationId); err != nil {
		fmt.Printf("[WARN] Failed to touch conversation %s: %v\n", msg.ConversationId, err)
	}
}

func messageToDTO(msg *entity.ChatMessage) *dto.ChatMessageDTO {
	d := &dto.ChatMessageDTO{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Attachment != nil {
		d.Attachment = &dto.AttachmentDTO{
			Name: msg.Attachment.Name,
			Type: msg.Attachment.Type,
			URL:  msg.Attachment.URL,
		}
	}
	return d
}

func (cs *chatService) GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, &dto.ConversationResponse{
			Id:        c.Id,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	return response, nil
}

func (cs *chatService) GetHistory(ctx context.Context, userId uuid.UUID, conversationId uuid.UUID) (*dto.GetHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, errors.New("conversation not found or access denied")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, msg := range messages {
		items = append(items, *messageToDTO(msg))
	}

	return &dto.GetHistoryResponse{
		ConversationId: conversation.Id,
		Title:          conversation.Title,
		Messages:       items,
	}, nil
}

func (cs *chatService) DeleteConversation(ctx context.Context, userId uuid.UUID, req *dto.DeleteConversationRequest) error {
	// A delete during an in-flight send would race the pipeline's writes
	// into this conversation; reject it like a concurrent send.
	if cs.sendGate.Busy(userId) {
		return ErrSendInProgress
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: req.ConversationId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return errors.New("conversation not found or access denied")
	}

	if err := uow.ConversationRepository().Delete(ctx, conversation.Id); err != nil {
		return err
	}

	// The conversation row is tombstoned for listing; its messages are
	// gone for good and purged outright.
	if err := uow.ChatMessageRepository().DeleteByConversationId(ctx, conversation.Id); err != nil {
		fmt.Printf("[WARN] Failed to purge messages for conversation %s: %v\n", conversation.Id, err)
	}

	if cs.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeConversationDeleted,
			Data: map[string]interface{}{
				"user_id":         userId,
				"conversation_id": conversation.Id,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish CONVERSATION_DELETED event: %v\n", err)
		}
	}

	return nil
}
