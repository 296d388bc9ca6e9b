package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"investchat-be/internal/entity"
	"investchat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}
	e := &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
	if !c.UpdatedAt.IsZero() {
		updatedAt := c.UpdatedAt
		e.UpdatedAt = &updatedAt
	}
	if c.DeletedAt.Valid {
		deletedAt := c.DeletedAt.Time
		e.DeletedAt = &deletedAt
		e.IsDeleted = true
	}
	return e
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}
	mdl := &model.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		mdl.UpdatedAt = *c.UpdatedAt
	}
	if c.DeletedAt != nil {
		mdl.DeletedAt.Time = *c.DeletedAt
		mdl.DeletedAt.Valid = true
	}
	return mdl
}

func (m *ChatMapper) ConversationsToEntities(convs []*model.Conversation) []*entity.Conversation {
	entities := make([]*entity.Conversation, len(convs))
	for i, c := range convs {
		entities[i] = m.ConversationToEntity(c)
	}
	return entities
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	e := &entity.ChatMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		UserId:         msg.UserId,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
	if len(msg.AttachmentInfo) > 0 {
		var att entity.Attachment
		if err := json.Unmarshal(msg.AttachmentInfo, &att); err == nil && att.Name != "" {
			e.Attachment = &att
		}
	}
	return e
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	mdl := &model.ChatMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		UserId:         msg.UserId,
		Role:           msg.Role,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
	if msg.Attachment != nil {
		if raw, err := json.Marshal(msg.Attachment); err == nil {
			mdl.AttachmentInfo = datatypes.JSON(raw)
		}
	}
	return mdl
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}

func (m *ChatMapper) MessagesToModels(msgs []*entity.ChatMessage) []*model.ChatMessage {
	models := make([]*model.ChatMessage, len(msgs))
	for i, msg := range msgs {
		models[i] = m.MessageToModel(msg)
	}
	return models
}
