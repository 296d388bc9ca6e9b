package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"investchat-be/internal/entity"
	"investchat-be/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	e := &entity.Notification{
		Id:        n.Id,
		UserId:    n.UserId,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Metadata) > 0 {
		_ = json.Unmarshal(n.Metadata, &e.Metadata)
	}
	return e
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	mdl := &model.Notification{
		Id:        n.Id,
		UserId:    n.UserId,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Metadata != nil {
		if raw, err := json.Marshal(n.Metadata); err == nil {
			mdl.Metadata = datatypes.JSON(raw)
		}
	}
	return mdl
}

func (m *NotificationMapper) ToEntities(items []*model.Notification) []*entity.Notification {
	entities := make([]*entity.Notification, len(items))
	for i, n := range items {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
