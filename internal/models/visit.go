package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Visit statuses form a closed set; anything else renders as "unknown"
// on the customer-facing views instead of crashing.
const (
	VisitPlanned    = "planned"
	VisitCompleted  = "completed"
	VisitCancelled  = "cancelled"
	VisitInProgress = "in_progress"
)

// Visit is a service visit record. Written by operator tooling; the console
// only reads it for the customer/branch calendar and history views.
type Visit struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerID      *uint     `gorm:"index" json:"customer_id,omitempty"`
	BranchID        *uint     `gorm:"index" json:"branch_id,omitempty"`
	OperatorID      *uint     `gorm:"index" json:"operator_id,omitempty"`
	VisitDate       time.Time `gorm:"not null;index" json:"visit_date"`
	Status          string    `gorm:"size:20;not null;default:'planned';index" json:"status"`
	VisitType       string    `gorm:"size:60" json:"visit_type"`
	Notes           string    `json:"notes"`
	Description     string    `json:"description"`
	ReportNo        string    `gorm:"size:40;index" json:"report_no"`
	PestTypes       StringList `gorm:"type:text" json:"pest_types"`
	EquipmentChecks CountMap   `gorm:"type:text" json:"equipment_checks"` // station label -> count
	PhotoURL        string     `json:"photo_url"`
	Invoiced        bool       `json:"invoiced"`
	InvoiceNo       string     `gorm:"size:40" json:"invoice_no"`
	Customer        *Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Branch          *Branch    `gorm:"foreignKey:BranchID" json:"-"`
	Operator        *Operator  `gorm:"foreignKey:OperatorID" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StringList stores a list of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// CountMap stores label->count pairs as a JSON text column.
type CountMap map[string]int

func (m CountMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *CountMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("models: unsupported column type for JSON scan")
	}
}
