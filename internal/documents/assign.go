// Package documents manages the admin-side assignment of catalogue document
// types to customers and branches.
package documents

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/scope"
)

var (
	ErrUnknownType = errors.New("documents: unknown document type")
	ErrNotFound    = errors.New("documents: assignment not found")
)

type Service struct{ DB *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// Assign creates an assignment record for exactly one scope. Picking a
// branch in the selector switches the whole assignment to branch scope;
// there is no customer-and-all-branches action.
func (s *Service) Assign(ctx context.Context, sc scope.Scope, typeCode string) (*models.CustomerDocument, error) {
	if !sc.Valid() {
		return nil, scope.ErrInvalidScope
	}
	title := TitleFor(typeCode)
	if title == "" {
		return nil, ErrUnknownType
	}
	doc := models.CustomerDocument{
		CustomerID:   sc.CustomerRef(),
		BranchID:     sc.BranchRef(),
		DocumentType: typeCode,
		Title:        title,
	}
	if err := s.DB.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Unassign removes an assignment explicitly by id.
func (s *Service) Unassign(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.CustomerDocument{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForScope re-queries the assignments visible to a scope. Small N by
// assumption, so no pagination.
func (s *Service) ListForScope(ctx context.Context, sc scope.Scope) ([]models.CustomerDocument, error) {
	if !sc.Valid() {
		return nil, scope.ErrInvalidScope
	}
	var docs []models.CustomerDocument
	q := sc.Apply(s.DB.WithContext(ctx).Model(&models.CustomerDocument{})).Order("document_type asc")
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
