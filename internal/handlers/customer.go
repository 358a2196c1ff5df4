package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/profile"
	"github.com/haserol/docpanel/internal/validation"
)

type CustomerHandler struct {
	DB    *gorm.DB
	Agg   *profile.Aggregator
	Chain *identity.Chain
	Log   *zap.Logger
}

func NewCustomerHandler(db *gorm.DB, chain *identity.Chain, log *zap.Logger) *CustomerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerHandler{DB: db, Agg: profile.NewAggregator(db), Chain: chain, Log: log}
}

// List feeds the staff-side customer selector: all customers with their
// branches. Re-queried on every open; nothing is cached.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	if !isStaff(ident) {
		httpx.JSONError(w, http.StatusForbidden, "staff_only", nil)
		return
	}
	var customers []models.Customer
	if err := h.DB.WithContext(r.Context()).Preload("Branches").Order("kisa_isim asc").Find(&customers).Error; err != nil {
		h.Log.Error("customer list failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers})
}

// Profile returns the denormalized header for the selected scope. Customer
// and branch logins are pinned to their own scope.
func (h *CustomerHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	sc, ok := scopeFrom(r, ident)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
		return
	}
	var (
		p        profile.Profile
		branches []models.Branch
		err      error
	)
	if sc.IsBranch() {
		p, branches, err = h.Agg.LoadForBranch(r.Context(), sc.BranchID)
	} else {
		p, branches, err = h.Agg.Load(r.Context(), sc.CustomerID)
	}
	if err != nil {
		h.Log.Error("profile load failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profile": p, "branches": branches})
}

// Update edits the customer info fields. Creation and deletion stay with
// backend provisioning; this console never deletes a customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		w.Header().Set("Allow", "POST,PUT")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	ident := identityFrom(r, h.Chain)
	if !isStaff(ident) {
		httpx.JSONError(w, http.StatusForbidden, "staff_only", nil)
		return
	}
	var input struct {
		CustomerID   uint   `json:"customer_id"`
		KisaIsim     string `json:"kisa_isim"`
		Unvan        string `json:"unvan"`
		VergiDairesi string `json:"vergi_dairesi"`
		VergiNo      string `json:"vergi_no"`
		MersisNo     string `json:"mersis_no"`
		Address      string `json:"address"`
		Phone        string `json:"phone"`
		Email        string `json:"email"`
		ServiceStart string `json:"service_start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if input.CustomerID == 0 {
		v["customer_id"] = "required"
	}
	validation.Required("kisa_isim", input.KisaIsim, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var c models.Customer
	if err := h.DB.WithContext(r.Context()).First(&c, input.CustomerID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "customer_not_found", nil)
		return
	}
	c.KisaIsim = input.KisaIsim
	c.Unvan = input.Unvan
	c.VergiDairesi = input.VergiDairesi
	c.VergiNo = input.VergiNo
	c.MersisNo = input.MersisNo
	c.Address = input.Address
	c.Phone = input.Phone
	c.Email = input.Email
	if input.ServiceStart != "" {
		if d, err := time.Parse("2006-01-02", input.ServiceStart); err == nil {
			c.ServiceStart = &d
		}
	}
	if err := h.DB.WithContext(r.Context()).Save(&c).Error; err != nil {
		h.Log.Error("customer update failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
