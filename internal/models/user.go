package models

import "time"

// AuthUser is the authenticated principal record (email + bcrypt hash).
// Role is never stored here; it is resolved by probing the role tables.
type AuthUser struct {
	ID           uint   `gorm:"primaryKey"`
	AuthID       string `gorm:"size:64;uniqueIndex;not null"` // opaque principal id (uuid)
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Operator is a field technician / back-office staff member.
type Operator struct {
	ID         uint   `gorm:"primaryKey"`
	AuthUserID string `gorm:"size:64;index"`
	Name       string `gorm:"not null"`
	Phone      string
	Email      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
