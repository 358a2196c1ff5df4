// Package profile assembles the denormalized customer header shown above
// every editor and preview. No caching: each selection re-queries.
package profile

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/models"
)

// Profile is the display form of a customer. All optional text fields are
// empty strings, never nulls, so templates can render them directly.
type Profile struct {
	CustomerID   uint   `json:"customer_id"`
	TradeName    string `json:"trade_name"` // Unvan if present, else KisaIsim
	KisaIsim     string `json:"kisa_isim"`
	Unvan        string `json:"unvan"`
	VergiDairesi string `json:"vergi_dairesi"`
	VergiNo      string `json:"vergi_no"`
	MersisNo     string `json:"mersis_no"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ServiceStart string `json:"service_start"` // ISO date; defaults to today when absent
}

type Aggregator struct{ DB *gorm.DB }

func NewAggregator(db *gorm.DB) *Aggregator { return &Aggregator{DB: db} }

// Load returns the customer profile together with its branch list.
func (a *Aggregator) Load(ctx context.Context, customerID uint) (Profile, []models.Branch, error) {
	var c models.Customer
	if err := a.DB.WithContext(ctx).First(&c, customerID).Error; err != nil {
		return Profile{}, nil, err
	}
	var branches []models.Branch
	if err := a.DB.WithContext(ctx).Where("customer_id = ?", c.ID).Order("id asc").Find(&branches).Error; err != nil {
		return Profile{}, nil, err
	}
	return fromCustomer(c), branches, nil
}

// LoadForBranch returns the parent customer's profile and a branch list
// containing only the given branch, matching what a branch login may see.
func (a *Aggregator) LoadForBranch(ctx context.Context, branchID uint) (Profile, []models.Branch, error) {
	var b models.Branch
	if err := a.DB.WithContext(ctx).Preload("Customer").First(&b, branchID).Error; err != nil {
		return Profile{}, nil, err
	}
	return fromCustomer(b.Customer), []models.Branch{b}, nil
}

func fromCustomer(c models.Customer) Profile {
	trade := c.Unvan
	if trade == "" {
		trade = c.KisaIsim
	}
	start := time.Now().Format("2006-01-02")
	if c.ServiceStart != nil {
		start = c.ServiceStart.Format("2006-01-02")
	}
	return Profile{
		CustomerID:   c.ID,
		TradeName:    trade,
		KisaIsim:     c.KisaIsim,
		Unvan:        c.Unvan,
		VergiDairesi: c.VergiDairesi,
		VergiNo:      c.VergiNo,
		MersisNo:     c.MersisNo,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		ServiceStart: start,
	}
}
