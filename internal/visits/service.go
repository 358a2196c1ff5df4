// Package visits serves the customer/branch visit history: the month
// calendar and the filtered, paginated list. Both read the same table over
// the same scope rule; only the query shape differs.
package visits

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/scope"
)

// PageSize is the fixed page size of the list view.
const PageSize = 12

type Service struct{ DB *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{DB: db} }

// scoped applies the visit visibility rule. A customer sees its own
// customer-level visits plus every visit on its branches; a branch sees
// only its own. The same rule backs the calendar and the list so the two
// views can never disagree on which visits exist.
func (s *Service) scoped(ctx context.Context, sc scope.Scope) (*gorm.DB, error) {
	q := s.DB.WithContext(ctx).Model(&models.Visit{})
	if sc.IsBranch() {
		return q.Where("branch_id = ?", sc.BranchID), nil
	}
	var branchIDs []uint
	if err := s.DB.WithContext(ctx).Model(&models.Branch{}).
		Where("customer_id = ?", sc.CustomerID).Pluck("id", &branchIDs).Error; err != nil {
		return nil, err
	}
	if len(branchIDs) == 0 {
		return q.Where("customer_id = ?", sc.CustomerID), nil
	}
	return q.Where("customer_id = ? OR branch_id IN ?", sc.CustomerID, branchIDs), nil
}

// InRange returns the scope's visits with visit_date in [from, to).
func (s *Service) InRange(ctx context.Context, sc scope.Scope, from, to time.Time) ([]models.Visit, error) {
	if !sc.Valid() {
		return nil, scope.ErrInvalidScope
	}
	q, err := s.scoped(ctx, sc)
	if err != nil {
		return nil, err
	}
	var out []models.Visit
	err = q.Where("visit_date >= ? AND visit_date < ?", from, to).
		Preload("Operator").Order("visit_date asc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Month loads the month containing t and returns the filled grid.
func (s *Service) Month(ctx context.Context, sc scope.Scope, t time.Time) ([]*Day, []models.Visit, error) {
	from, to := MonthRange(t)
	vs, err := s.InRange(ctx, sc, from, to)
	if err != nil {
		return nil, nil, err
	}
	grid := MonthGrid(t)
	Fill(grid, vs)
	return grid, vs, nil
}

// ListFilter is the list view's query state. Changing any field resets the
// page and re-issues the query; it is independent of the calendar range.
type ListFilter struct {
	Query  string // case-insensitive substring over report no / notes / description
	Status string // equality against the status column, empty = all
	Page   int    // 1-based
}

// Row is a list item with the joined display names.
type Row struct {
	models.Visit
	OperatorName string        `json:"operator_name"`
	CustomerName string        `json:"customer_name"`
	BranchName   string        `json:"branch_name"`
	Display      StatusDisplay `json:"display"`
}

type ListResult struct {
	Items    []Row `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// List runs the filtered, offset-paginated history query.
func (s *Service) List(ctx context.Context, sc scope.Scope, f ListFilter) (ListResult, error) {
	if !sc.Valid() {
		return ListResult{}, scope.ErrInvalidScope
	}
	q, err := s.scoped(ctx, sc)
	if err != nil {
		return ListResult{}, err
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(report_no) LIKE ? OR lower(notes) LIKE ? OR lower(description) LIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	var items []models.Visit
	err = q.Preload("Operator").Preload("Customer").Preload("Branch").
		Order("visit_date desc").
		Limit(PageSize).Offset((page - 1) * PageSize).
		Find(&items).Error
	if err != nil {
		return ListResult{}, err
	}
	rows := make([]Row, 0, len(items))
	for _, v := range items {
		r := Row{Visit: v, Display: DisplayFor(v.Status)}
		if v.Operator != nil {
			r.OperatorName = v.Operator.Name
		}
		if v.Customer != nil {
			r.CustomerName = displayName(*v.Customer)
		}
		if v.Branch != nil {
			r.BranchName = v.Branch.Name
		}
		rows = append(rows, r)
	}
	return ListResult{Items: rows, Total: total, Page: page, PageSize: PageSize}, nil
}

func displayName(c models.Customer) string {
	if c.Unvan != "" {
		return c.Unvan
	}
	return c.KisaIsim
}
