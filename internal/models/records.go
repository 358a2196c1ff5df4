package models

import (
	"time"

	"github.com/haserol/docpanel/internal/scope"
)

// ScopeColumns is embedded by every scoped record family. Exactly one of the
// two ids is non-null after ApplyScope; branch rows do not repeat the parent
// customer id, so customer-level queries filter on branch_id IS NULL.
type ScopeColumns struct {
	CustomerID *uint `gorm:"index" json:"customer_id,omitempty"`
	BranchID   *uint `gorm:"index" json:"branch_id,omitempty"`
}

// ApplyScope stamps the ownership columns for an insert under s.
func (c *ScopeColumns) ApplyScope(s scope.Scope) {
	c.CustomerID = s.CustomerRef()
	c.BranchID = s.BranchRef()
}

// RecordMeta holds the id and timestamps shared by the record families.
// Editors assign synthetic in-memory ids; ClearID drops them before insert
// so the backend always assigns the real key.
type RecordMeta struct {
	ID uint `gorm:"primaryKey" json:"id"`
	ScopeColumns
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *RecordMeta) ClearID() { m.ID = 0 }

// Date fields in the record families are stored as plain ISO text; the
// editors accept and persist empty strings without field-level validation.

// Permit is a biocidal product application permit row.
type Permit struct {
	RecordMeta
	PermitNo   string `gorm:"size:60" json:"permit_no"`
	HolderName string `json:"holder_name"`
	IssuedBy   string `json:"issued_by"`
	IssueDate  string `gorm:"size:10" json:"issue_date"`
	ExpiryDate string `gorm:"size:10" json:"expiry_date"`
}

// StaffCertificate is a staff training certificate row.
type StaffCertificate struct {
	RecordMeta
	StaffName     string `json:"staff_name"`
	Title         string `json:"title"`
	CertificateNo string `gorm:"size:60" json:"certificate_no"`
	IssueDate     string `gorm:"size:10" json:"issue_date"`
	ExpiryDate    string `gorm:"size:10" json:"expiry_date"`
}

// FumigationLicense is a fumigation operator license row.
type FumigationLicense struct {
	RecordMeta
	HolderName string `json:"holder_name"`
	LicenseNo  string `gorm:"size:60" json:"license_no"`
	IssuedBy   string `json:"issued_by"`
	IssueDate  string `gorm:"size:10" json:"issue_date"`
	ExpiryDate string `gorm:"size:10" json:"expiry_date"`
}

// InsurancePolicy is a liability insurance policy row.
type InsurancePolicy struct {
	RecordMeta
	Insurer   string `json:"insurer"`
	PolicyNo  string `gorm:"size:60" json:"policy_no"`
	Coverage  string `json:"coverage"`
	StartDate string `gorm:"size:10" json:"start_date"`
	EndDate   string `gorm:"size:10" json:"end_date"`
}

// WasteDisposalRecord is one row of the waste-disposal log.
type WasteDisposalRecord struct {
	RecordMeta
	Date         string `gorm:"size:10" json:"date"`
	WasteType    string `json:"waste_type"`
	Quantity     string `gorm:"size:20" json:"quantity"`
	Unit         string `gorm:"size:10" json:"unit"`
	DisposalFirm string `json:"disposal_firm"`
	ReceiptNo    string `gorm:"size:60" json:"receipt_no"`
}

// Product is one row of the applied-products list.
type Product struct {
	RecordMeta
	Name             string `json:"name"`
	ActiveIngredient string `json:"active_ingredient"`
	Antidote         string `json:"antidote"`
	LicenseNo        string `gorm:"size:60" json:"license_no"`
	UsageArea        string `json:"usage_area"`
}

// ContingencyPlanEntry is one row of the contingency plan table.
type ContingencyPlanEntry struct {
	RecordMeta
	Situation   string `json:"situation"`
	Action      string `json:"action"`
	Responsible string `json:"responsible"`
	Phone       string `gorm:"size:30" json:"phone"`
}
