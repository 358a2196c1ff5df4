package models

import "time"

// Customer is the service customer (müşteri). Provisioned by the back office;
// the console edits its info fields but never deletes it.
type Customer struct {
	ID           uint   `gorm:"primaryKey"`
	AuthUserID   string `gorm:"size:64;index"` // principal id when the customer has its own login
	KisaIsim     string `gorm:"not null;index"`
	Unvan        string `gorm:"index"` // legal trade name; display falls back to KisaIsim
	VergiDairesi string
	VergiNo      string `gorm:"size:16;index"`
	MersisNo     string `gorm:"size:20"`
	Address      string
	Phone        string
	Email        string
	ServiceStart *time.Time
	Branches     []Branch `gorm:"foreignKey:CustomerID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Branch (şube) belongs to a customer and may carry its own login identity
// distinct from its parent's.
type Branch struct {
	ID         uint     `gorm:"primaryKey"`
	CustomerID uint     `gorm:"not null;index"`
	Customer   Customer `gorm:"foreignKey:CustomerID"`
	AuthUserID string   `gorm:"size:64;index"`
	Name       string   `gorm:"not null"`
	Address    string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
