package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/documents"
	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/scope"
)

type DocumentHandler struct {
	Svc   *documents.Service
	Chain *identity.Chain
	Log   *zap.Logger
}

func NewDocumentHandler(db *gorm.DB, chain *identity.Chain, log *zap.Logger) *DocumentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentHandler{Svc: documents.NewService(db), Chain: chain, Log: log}
}

// Catalogue returns the fixed document type list for the assignment picker.
func (h *DocumentHandler) Catalogue(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"items": documents.Catalogue})
}

// List returns the assignments visible to the selected scope.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	sc, ok := scopeFrom(r, ident)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
		return
	}
	docs, err := h.Svc.ListForScope(r.Context(), sc)
	if err != nil {
		h.Log.Error("document list failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_documents", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": docs})
}

// Assign creates an assignment for exactly one scope; admin only.
func (h *DocumentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	ident := identityFrom(r, h.Chain)
	if ident == nil || ident.Role != identity.RoleAdmin {
		httpx.JSONError(w, http.StatusForbidden, "admin_only", nil)
		return
	}
	var input struct {
		CustomerID   uint   `json:"customer_id"`
		BranchID     uint   `json:"branch_id"`
		DocumentType string `json:"document_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	// Branch selection wins: a non-empty branch switches the scope away from
	// the customer, never both.
	var sc scope.Scope
	if input.BranchID != 0 {
		sc = scope.ForBranch(input.BranchID)
	} else {
		sc = scope.ForCustomer(input.CustomerID)
	}
	doc, err := h.Svc.Assign(r.Context(), sc, input.DocumentType)
	switch {
	case errors.Is(err, scope.ErrInvalidScope):
		httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
	case errors.Is(err, documents.ErrUnknownType):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_document_type", nil)
	case err != nil:
		h.Log.Error("assign failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "assign_failed", nil)
	default:
		httpx.JSON(w, http.StatusCreated, doc)
	}
}

// Unassign deletes an assignment by id; admin only.
func (h *DocumentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST,DELETE")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	ident := identityFrom(r, h.Chain)
	if ident == nil || ident.Role != identity.RoleAdmin {
		httpx.JSONError(w, http.StatusForbidden, "admin_only", nil)
		return
	}
	id := queryUint(r, "id")
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.Svc.Unassign(r.Context(), id)
	switch {
	case errors.Is(err, documents.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case err != nil:
		h.Log.Error("unassign failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "unassign_failed", nil)
	default:
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	}
}
