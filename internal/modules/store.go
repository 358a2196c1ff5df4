// Package modules implements the load/replace persistence shared by every
// document editor (permits, certificates, license, insurance, waste log,
// products, contingency plan).
package modules

import (
	"context"

	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/scope"
)

// Row is implemented (via RecordMeta/ScopeColumns) by every record family.
type Row interface {
	ClearID()
	ApplyScope(s scope.Scope)
}

// Store persists one record family with replace-all semantics: delete every
// row in scope, then insert the submitted set. Both steps run inside a
// single transaction so a failed insert can never leave the scope empty.
type Store[T any, PT interface {
	*T
	Row
}] struct {
	db *gorm.DB
}

func NewStore[T any, PT interface {
	*T
	Row
}](db *gorm.DB) *Store[T, PT] {
	return &Store[T, PT]{db: db}
}

// Load returns all rows for the scope ordered by id.
func (s *Store[T, PT]) Load(ctx context.Context, sc scope.Scope) ([]T, error) {
	if !sc.Valid() {
		return nil, scope.ErrInvalidScope
	}
	var rows []T
	q := sc.Apply(s.db.WithContext(ctx).Model(new(T))).Order("id asc")
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Replace swaps the scope's row set for the submitted one. Editor-side
// synthetic ids are cleared so the backend assigns real keys; an empty set
// still clears the prior rows.
func (s *Store[T, PT]) Replace(ctx context.Context, sc scope.Scope, rows []T) error {
	if !sc.Valid() {
		return scope.ErrInvalidScope
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := sc.Apply(tx).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			r := PT(&rows[i])
			r.ClearID()
			r.ApplyScope(sc)
		}
		return tx.Create(&rows).Error
	})
}

// Count returns the number of rows in scope, used by the dashboards.
func (s *Store[T, PT]) Count(ctx context.Context, sc scope.Scope) (int64, error) {
	if !sc.Valid() {
		return 0, scope.ErrInvalidScope
	}
	var n int64
	if err := sc.Apply(s.db.WithContext(ctx).Model(new(T))).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
