package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	CPF           string     `json:"cpf"` // formatted 000.000.000-00
	Phone         string     `json:"phone"`
	BirthDate     string     `json:"birth_date,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	Address       AddressDTO `json:"address"`
	CreatedAt     time.Time  `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string      `json:"full_name" validate:"omitempty,min=3"`
	Phone    string      `json:"phone" validate:"omitempty,min=10,max=11"`
	Address  *AddressDTO `json:"address" validate:"omitempty"`
}

type AccessLogResponse struct {
	Id        uuid.UUID `json:"id"`
	IpAddress string    `json:"ip_address"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Device    string    `json:"device"`
	Country   string    `json:"country,omitempty"`
	Region    string    `json:"region,omitempty"`
	City      string    `json:"city,omitempty"`
	ISP       string    `json:"isp,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
