package model

import (
	"time"

	"github.com/google/uuid"
)

type AccessLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	IpAddress string    `gorm:"type:text"`
	UserAgent string    `gorm:"type:text"`
	Browser   string    `gorm:"type:text"`
	OS        string    `gorm:"type:text"`
	Device    string    `gorm:"type:text"`
	Country   string    `gorm:"type:text"`
	Region    string    `gorm:"type:text"`
	City      string    `gorm:"type:text"`
	ISP       string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}
