package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccessLog records a best-effort snapshot of where and how a user
// signed in. Writes are fire and forget; a missing row never means a
// failed login.
type AccessLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	IpAddress string
	UserAgent string
	Browser   string
	OS        string
	Device    string
	Country   string
	Region    string
	City      string
	ISP       string
	CreatedAt time.Time
}
