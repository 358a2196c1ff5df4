package identity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/auth"
	"github.com/haserol/docpanel/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Operator{}, &models.Customer{}, &models.Branch{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAdminByEmailWinsOverTables(t *testing.T) {
	db := setupTestDB(t)
	// the same principal also exists as an operator; admin email must win
	if err := db.Create(&models.Operator{AuthUserID: "u-1", Name: "Admin Op"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	chain := NewChain(db, "admin@haserol.com.tr", nil)

	id := chain.Resolve(context.Background(), auth.Principal{AuthID: "u-1", Email: "Admin@Haserol.com.tr"})
	if id == nil || id.Role != RoleAdmin {
		t.Fatalf("expected admin, got %+v", id)
	}
}

func TestOperatorBeforeCustomer(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Create(&models.Operator{AuthUserID: "u-2", Name: "Op"}).Error; err != nil {
		t.Fatalf("seed op: %v", err)
	}
	if err := db.Create(&models.Customer{AuthUserID: "u-2", KisaIsim: "C"}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	chain := NewChain(db, "admin@haserol.com.tr", nil)

	id := chain.Resolve(context.Background(), auth.Principal{AuthID: "u-2", Email: "op@x"})
	if id == nil || id.Role != RoleOperator {
		t.Fatalf("expected operator, got %+v", id)
	}
	if id.Operator == nil || id.Operator.Name != "Op" {
		t.Fatalf("operator record not attached")
	}
}

func TestCustomerBeforeBranch(t *testing.T) {
	db := setupTestDB(t)
	c := models.Customer{AuthUserID: "u-3", KisaIsim: "Acme"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := db.Create(&models.Branch{CustomerID: c.ID, AuthUserID: "u-3", Name: "Şube"}).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	chain := NewChain(db, "", nil)

	id := chain.Resolve(context.Background(), auth.Principal{AuthID: "u-3", Email: "acme@x"})
	if id == nil || id.Role != RoleCustomer {
		t.Fatalf("expected customer, got %+v", id)
	}
}

func TestBranchResolvesWithParentPreloaded(t *testing.T) {
	db := setupTestDB(t)
	c := models.Customer{KisaIsim: "Acme", Unvan: "Acme A.Ş."}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := db.Create(&models.Branch{CustomerID: c.ID, AuthUserID: "u-4", Name: "Depo"}).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	chain := NewChain(db, "", nil)

	id := chain.Resolve(context.Background(), auth.Principal{AuthID: "u-4", Email: "depo@x"})
	if id == nil || id.Role != RoleBranch {
		t.Fatalf("expected branch, got %+v", id)
	}
	if id.Branch == nil || id.Branch.Customer.ID != c.ID {
		t.Fatalf("parent customer not preloaded")
	}
}

func TestNoRoleMeansNil(t *testing.T) {
	db := setupTestDB(t)
	chain := NewChain(db, "admin@haserol.com.tr", nil)

	if id := chain.Resolve(context.Background(), auth.Principal{AuthID: "nobody", Email: "x@y"}); id != nil {
		t.Fatalf("expected nil identity, got %+v", id)
	}
}

type failingResolver struct{}

func (failingResolver) TryResolve(context.Context, auth.Principal) (*Identity, error) {
	return nil, errors.New("probe down")
}

func TestProbeErrorFallsThrough(t *testing.T) {
	db := setupTestDB(t)
	c := models.Customer{AuthUserID: "u-5", KisaIsim: "Acme"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	chain := &Chain{resolvers: []RoleResolver{failingResolver{}, customerResolver{db: db}}, log: zap.NewNop()}

	id := chain.Resolve(context.Background(), auth.Principal{AuthID: "u-5", Email: "a@x"})
	if id == nil || id.Role != RoleCustomer {
		t.Fatalf("error should fall through to the next probe, got %+v", id)
	}
}
