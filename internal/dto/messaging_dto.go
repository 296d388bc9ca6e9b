package dto

import (
	"time"

	"github.com/google/uuid"
)

// LoginRecordedMessage is queued after a successful login and consumed
// asynchronously to build the access log entry.
type LoginRecordedMessage struct {
	UserId     uuid.UUID `json:"user_id"`
	IpAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	OccurredAt time.Time `json:"occurred_at"`
}
