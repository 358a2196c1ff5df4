package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/visits"
)

func TestVisitListEmptyPagerShowsOnePage(t *testing.T) {
	db := setupTestDB(t)
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewVisitHandler(db, chain, nil)

	r := httptest.NewRequest(http.MethodGet, "/visits?customer_id=1", nil)
	r.Header.Set("Accept", "text/html")
	r = asPrincipal(r, "adm", "admin@haserol.com.tr")
	w := httptest.NewRecorder()
	h.List(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	// no matches must still render page 1 of 1, never "1 / 0"
	require.Contains(t, w.Body.String(), "1 / 1")
	require.NotContains(t, w.Body.String(), "1 / 0")
}

func TestVisitListScopeSwitchBranchWins(t *testing.T) {
	db := setupTestDB(t)
	chain := identity.NewChain(db, "admin@haserol.com.tr", nil)
	h := NewVisitHandler(db, chain, nil)

	custID, branchID := uint(1), uint(2)
	require.NoError(t, db.Create(&models.Visit{CustomerID: &custID, VisitDate: time.Now(), Status: models.VisitPlanned, ReportNo: "R-CUST"}).Error)
	require.NoError(t, db.Create(&models.Visit{BranchID: &branchID, VisitDate: time.Now(), Status: models.VisitPlanned, ReportNo: "R-BRANCH"}).Error)

	// both selector params present: the branch wins and the customer-level
	// visit stays out of the view
	r := httptest.NewRequest(http.MethodGet, "/visits?customer_id=1&branch_id=2", nil)
	r.Header.Set("Accept", "application/json")
	r = asPrincipal(r, "adm", "admin@haserol.com.tr")
	w := httptest.NewRecorder()
	h.List(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var res visits.ListResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.EqualValues(t, 1, res.Total)
	require.Equal(t, "R-BRANCH", res.Items[0].ReportNo)
}
