package models

import (
	"time"

	"busline/internal/domain"
)

// Profile is the users row attached to an authenticated identity.
type Profile struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Phone       string      `json:"phone,omitempty"`
	Gender      string      `json:"gender"`
	DateOfBirth string      `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ProfileUpdate supports PATCH-style updates via key presence.
type ProfileUpdate struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

func (u ProfileUpdate) Empty() bool {
	return u.FullName == nil && u.Phone == nil && u.Gender == nil && u.DateOfBirth == nil
}
