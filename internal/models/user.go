package models

import "github.com/google/uuid"

// AdminUser is a dashboard account. One admin manages exactly one business;
// there is no role model beyond holding a valid session token.
type AdminUser struct {
	BaseModel
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	BusinessID   uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
}
