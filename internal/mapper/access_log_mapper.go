package mapper

import (
	"investchat-be/internal/entity"
	"investchat-be/internal/model"
)

type AccessLogMapper struct{}

func NewAccessLogMapper() *AccessLogMapper {
	return &AccessLogMapper{}
}

func (m *AccessLogMapper) ToEntity(l *model.AccessLog) *entity.AccessLog {
	if l == nil {
		return nil
	}
	return &entity.AccessLog{
		Id:        l.Id,
		UserId:    l.UserId,
		IpAddress: l.IpAddress,
		UserAgent: l.UserAgent,
		Browser:   l.Browser,
		OS:        l.OS,
		Device:    l.Device,
		Country:   l.Country,
		Region:    l.Region,
		City:      l.City,
		ISP:       l.ISP,
		CreatedAt: l.CreatedAt,
	}
}

func (m *AccessLogMapper) ToModel(l *entity.AccessLog) *model.AccessLog {
	if l == nil {
		return nil
	}
	return &model.AccessLog{
		Id:        l.Id,
		UserId:    l.UserId,
		IpAddress: l.IpAddress,
		UserAgent: l.UserAgent,
		Browser:   l.Browser,
		OS:        l.OS,
		Device:    l.Device,
		Country:   l.Country,
		Region:    l.Region,
		City:      l.City,
		ISP:       l.ISP,
		CreatedAt: l.CreatedAt,
	}
}

func (m *AccessLogMapper) ToEntities(logs []*model.AccessLog) []*entity.AccessLog {
	entities := make([]*entity.AccessLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
