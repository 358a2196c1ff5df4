package models

import "time"

// CustomerDocument assigns one document type from the fixed catalogue to a
// customer or a branch. Exactly one of CustomerID/BranchID is non-null;
// "assigned to a branch" and "assigned to the parent customer" are mutually
// exclusive views.
type CustomerDocument struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CustomerID   *uint  `gorm:"index" json:"customer_id,omitempty"`
	BranchID     *uint  `gorm:"index" json:"branch_id,omitempty"`
	DocumentType string `gorm:"size:10;not null;index" json:"document_type"` // catalogue code, e.g. "3.1"
	Title        string `gorm:"not null" json:"title"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentSettings carries the document-control block printed in every
// preview header. Presentational only; not persisted per customer.
type DocumentSettings struct {
	DocumentNo  string `json:"document_no"`
	RevisionNo  string `json:"revision_no"`
	PublishDate string `json:"publish_date"`
}
