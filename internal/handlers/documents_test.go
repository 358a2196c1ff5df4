package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haserol/docpanel/internal/identity"
)

func assignJSON(t *testing.T, h *DocumentHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/documents/assign", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r = asPrincipal(r, "adm", "admin@haserol.com.tr")
	w := httptest.NewRecorder()
	h.Assign(w, r)
	return w
}

func TestAssignBranchSelectionWins(t *testing.T) {
	db := setupTestDB(t)
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewDocumentHandler(db, chain, nil)

	// both ids submitted: the chosen branch switches the whole assignment to
	// branch scope, the customer id must not be stored alongside
	w := assignJSON(t, h, `{"customer_id":1,"branch_id":2,"document_type":"3.1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var doc struct {
		CustomerID *uint `json:"customer_id"`
		BranchID   *uint `json:"branch_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.NotNil(t, doc.BranchID)
	require.EqualValues(t, 2, *doc.BranchID)
	require.Nil(t, doc.CustomerID)

	// clearing the branch falls back to customer scope
	w = assignJSON(t, h, `{"customer_id":1,"branch_id":0,"document_type":"3.1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	doc.CustomerID, doc.BranchID = nil, nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.NotNil(t, doc.CustomerID)
	require.EqualValues(t, 1, *doc.CustomerID)
	require.Nil(t, doc.BranchID)
}

func TestAssignRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewDocumentHandler(db, chain, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/documents/assign",
		strings.NewReader(`{"customer_id":1,"document_type":"3.1"}`))
	r.Header.Set("Content-Type", "application/json")
	r = asPrincipal(r, "nobody", "x@y")
	w := httptest.NewRecorder()
	h.Assign(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssignNeitherScopeRejected(t *testing.T) {
	db := setupTestDB(t)
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewDocumentHandler(db, chain, nil)

	w := assignJSON(t, h, `{"document_type":"3.1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "no_scope_selected")
}
