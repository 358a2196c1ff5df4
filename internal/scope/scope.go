// Package scope models the customer-or-branch ownership of every document
// record. Exactly one of the two ids is set; a customer-level record is one
// whose branch_id is NULL, never one where both ids are filled.
package scope

import (
	"errors"

	"gorm.io/gorm"
)

var ErrInvalidScope = errors.New("scope: exactly one of customer or branch must be set")

// Scope identifies the owner of a record or query: a customer or a branch.
type Scope struct {
	CustomerID uint
	BranchID   uint
}

// ForCustomer returns a customer-level scope.
func ForCustomer(id uint) Scope { return Scope{CustomerID: id} }

// ForBranch returns a branch-level scope.
func ForBranch(id uint) Scope { return Scope{BranchID: id} }

// Valid reports whether exactly one side is set.
func (s Scope) Valid() bool {
	return (s.CustomerID != 0) != (s.BranchID != 0)
}

// IsBranch reports whether the scope targets a branch.
func (s Scope) IsBranch() bool { return s.BranchID != 0 }

// Apply adds the ownership filter to a gorm query. Customer scope matches
// customer-level rows only (branch_id IS NULL); relying on the non-null
// branch_id alone would double-count branch rows under their parent.
func (s Scope) Apply(q *gorm.DB) *gorm.DB {
	if s.IsBranch() {
		return q.Where("branch_id = ?", s.BranchID)
	}
	return q.Where("customer_id = ? AND branch_id IS NULL", s.CustomerID)
}

// CustomerRef returns the customer_id column value for an insert under this
// scope, nil when the record belongs to a branch.
func (s Scope) CustomerRef() *uint {
	if s.IsBranch() {
		return nil
	}
	id := s.CustomerID
	return &id
}

// BranchRef returns the branch_id column value for an insert under this scope.
func (s Scope) BranchRef() *uint {
	if !s.IsBranch() {
		return nil
	}
	id := s.BranchID
	return &id
}
