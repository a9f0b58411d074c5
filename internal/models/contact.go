package models

import "time"

// Contact is an address-book entry owned by exactly one user. UserID is set
// from the authenticated identity at creation time and never changes.
type Contact struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Name      string    `json:"name" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"required,max=30"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
