// Package identity maps an authenticated principal to exactly one role by
// probing the role tables in a fixed priority order: admin email, operator,
// customer, branch. Each probe is a strategy implementing RoleResolver so
// new roles slot into the chain without editing a monolithic function.
package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/models"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleCustomer Role = "customer"
	RoleBranch   Role = "branch"
)

// Identity is the resolved role with its backing record.
type Identity struct {
	Role     Role
	AuthID   string
	Email    string
	Operator *models.Operator
	Customer *models.Customer
	Branch   *models.Branch // Customer association preloaded
}

// RoleResolver probes one role table for the principal. A (nil, nil) return
// means "not this role"; an error is logged by the chain and treated the
// same way so a flaky probe falls through instead of blocking sign-in.
type RoleResolver interface {
	TryResolve(ctx context.Context, p auth.Principal) (*Identity, error)
}

// Chain runs the resolvers in order and takes the first match.
type Chain struct {
	resolvers []RoleResolver
	log       *zap.Logger
}

// NewChain wires the fixed production probe order.
func NewChain(db *gorm.DB, adminEmail string, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{
		resolvers: []RoleResolver{
			adminResolver{email: adminEmail},
			operatorResolver{db: db},
			customerResolver{db: db},
			branchResolver{db: db},
		},
		log: log,
	}
}

// Resolve returns the first matching identity, or nil when no role table
// claims the principal (unauthenticated as far as the console is concerned).
func (c *Chain) Resolve(ctx context.Context, p auth.Principal) *Identity {
	for _, r := range c.resolvers {
		id, err := r.TryResolve(ctx, p)
		if err != nil {
			c.log.Warn("role probe failed, falling through",
				zap.String("auth_id", p.AuthID), zap.Error(err))
			continue
		}
		if id != nil {
			return id
		}
	}
	return nil
}

type adminResolver struct{ email string }

func (a adminResolver) TryResolve(_ context.Context, p auth.Principal) (*Identity, error) {
	if a.email == "" || !strings.EqualFold(p.Email, a.email) {
		return nil, nil
	}
	return &Identity{Role: RoleAdmin, AuthID: p.AuthID, Email: p.Email}, nil
}

type operatorResolver struct{ db *gorm.DB }

func (o operatorResolver) TryResolve(ctx context.Context, p auth.Principal) (*Identity, error) {
	var op models.Operator
	err := o.db.WithContext(ctx).Where("auth_user_id = ?", p.AuthID).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Identity{Role: RoleOperator, AuthID: p.AuthID, Email: p.Email, Operator: &op}, nil
}

type customerResolver struct{ db *gorm.DB }

func (c customerResolver) TryResolve(ctx context.Context, p auth.Principal) (*Identity, error) {
	var cu models.Customer
	err := c.db.WithContext(ctx).Where("auth_user_id = ?", p.AuthID).First(&cu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Identity{Role: RoleCustomer, AuthID: p.AuthID, Email: p.Email, Customer: &cu}, nil
}

type branchResolver struct{ db *gorm.DB }

func (b branchResolver) TryResolve(ctx context.Context, p auth.Principal) (*Identity, error) {
	var br models.Branch
	err := b.db.WithContext(ctx).Preload("Customer").
		Where("auth_user_id = ?", p.AuthID).First(&br).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Identity{Role: RoleBranch, AuthID: p.AuthID, Email: p.Email, Branch: &br}, nil
}
