package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/view"
	"github.com/haserol/docpanel/internal/visits"
)

type VisitHandler struct {
	Svc   *visits.Service
	Chain *identity.Chain
	Log   *zap.Logger
}

func NewVisitHandler(db *gorm.DB, chain *identity.Chain, log *zap.Logger) *VisitHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &VisitHandler{Svc: visits.NewService(db), Chain: chain, Log: log}
}

// Calendar serves the month grid for the signed-in scope. ?month=2006-01
// selects the displayed month, defaulting to the current one.
func (h *VisitHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	sc, ok := scopeFrom(r, ident)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
		return
	}
	month := time.Now()
	if m := r.URL.Query().Get("month"); m != "" {
		if parsed, err := time.Parse("2006-01", m); err == nil {
			month = parsed
		}
	}
	grid, monthVisits, err := h.Svc.Month(r.Context(), sc, month)
	if err != nil {
		h.Log.Error("calendar load failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_calendar", nil)
		return
	}
	if httpx.WantsHTML(r) {
		data := map[string]any{
			"Grid":     grid,
			"Month":    month.Format("2006-01"),
			"Prev":     month.AddDate(0, -1, 0).Format("2006-01"),
			"Next":     month.AddDate(0, 1, 0).Format("2006-01"),
			"Weekdays": []string{"Pzt", "Sal", "Çar", "Per", "Cum", "Cmt", "Paz"},
		}
		if err := view.Render(w, r, "calendar.html", data); err != nil {
			h.Log.Error("calendar render failed", zap.Error(err))
			http.Error(w, "render error", http.StatusInternalServerError)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"month": month.Format("2006-01"),
		"grid":  grid,
		"total": len(monthVisits),
	})
}

// List serves the paginated visit history with free-text and status filters.
// Its query path is independent of the calendar's month range.
func (h *VisitHandler) List(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r, h.Chain)
	sc, ok := scopeFrom(r, ident)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
		return
	}
	f := visits.ListFilter{
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
		Page:   1,
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 1 {
		f.Page = p
	}
	res, err := h.Svc.List(r.Context(), sc, f)
	if err != nil {
		h.Log.Error("visit list failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_visits", nil)
		return
	}
	if httpx.WantsHTML(r) {
		pages := int((res.Total + visits.PageSize - 1) / visits.PageSize)
		if pages < 1 {
			pages = 1
		}
		data := map[string]any{
			"Result":   res,
			"Query":    f.Query,
			"Status":   f.Status,
			"Statuses": visits.KnownStatuses(),
			"Pages":    pages,
		}
		if err := view.Render(w, r, "visits.html", data); err != nil {
			h.Log.Error("visits render failed", zap.Error(err))
			http.Error(w, "render error", http.StatusInternalServerError)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
