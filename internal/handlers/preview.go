package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/documents"
	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/modules"
	"github.com/haserol/docpanel/internal/profile"
	"github.com/haserol/docpanel/internal/scope"
	"github.com/haserol/docpanel/internal/view"
	"github.com/haserol/docpanel/internal/visits"
)

// PreviewHandler renders the A4 document previews. Each preview is a pure
// function of the scoped data plus the document-control settings; printing
// is the browser's print engine, never generated PDF bytes.
type PreviewHandler struct {
	DB     *gorm.DB
	Agg    *profile.Aggregator
	Visits *visits.Service
	Chain  *identity.Chain
	Log    *zap.Logger
}

func NewPreviewHandler(db *gorm.DB, chain *identity.Chain, log *zap.Logger) *PreviewHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PreviewHandler{DB: db, Agg: profile.NewAggregator(db), Visits: visits.NewService(db), Chain: chain, Log: log}
}

// templates per catalogue code; every page shares the A4 frame in layout.
var previewTemplates = map[string]string{
	"1.1": "previews/customer_info.html",
	"1.2": "previews/contract.html",
	"2.1": "previews/permits.html",
	"2.2": "previews/certificates.html",
	"2.3": "previews/fumigation.html",
	"3.1": "previews/insurance.html",
	"3.2": "previews/waste.html",
	"4.1": "previews/products.html",
	"4.2": "previews/contingency.html",
	"5.1": "previews/visit_reports.html",
}

// Show handles /preview/<code>?customer_id=|branch_id=&doc_no=&rev_no=&pub_date=
func (h *PreviewHandler) Show(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/preview/")
	tplName, ok := previewTemplates[code]
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "unknown_document_type", nil)
		return
	}
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
		h.Log.Error("preview profile load failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_profile", nil)
		return
	}

	data := map[string]any{
		"Title":    documents.TitleFor(code),
		"Code":     code,
		"Profile":  p,
		"Branches": branches,
		"Settings": settingsFrom(r),
	}
	if err := h.loadRows(r, sc, code, data); err != nil {
		h.Log.Error("preview data load failed", zap.String("code", code), zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_document", nil)
		return
	}
	if err := view.Render(w, r, tplName, data); err != nil {
		h.Log.Error("preview render failed", zap.String("code", code), zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (h *PreviewHandler) loadRows(r *http.Request, sc scope.Scope, code string, data map[string]any) error {
	ctx := r.Context()
	switch code {
	case "2.1":
		rows, err := modules.NewStore[models.Permit](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "2.2":
		rows, err := modules.NewStore[models.StaffCertificate](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "2.3":
		rows, err := modules.NewStore[models.FumigationLicense](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "3.1":
		rows, err := modules.NewStore[models.InsurancePolicy](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "3.2":
		rows, err := modules.NewStore[models.WasteDisposalRecord](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "4.1":
		rows, err := modules.NewStore[models.Product](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "4.2":
		rows, err := modules.NewStore[models.ContingencyPlanEntry](h.DB).Load(ctx, sc)
		data["Rows"] = rows
		return err
	case "5.1":
		// last three months of visits for the report bundle
		to := time.Now().AddDate(0, 0, 1)
		from := to.AddDate(0, -3, 0)
		rows, err := h.Visits.InRange(ctx, sc, from, to)
		data["Rows"] = rows
		return err
	default:
		// 1.1 and 1.2 render from the profile alone
		return nil
	}
}

func settingsFrom(r *http.Request) models.DocumentSettings {
	q := r.URL.Query()
	s := models.DocumentSettings{
		DocumentNo:  q.Get("doc_no"),
		RevisionNo:  q.Get("rev_no"),
		PublishDate: q.Get("pub_date"),
	}
	if s.DocumentNo == "" {
		s.DocumentNo = "HD-" + strings.ReplaceAll(r.URL.Path[len("/preview/"):], ".", "")
	}
	if s.RevisionNo == "" {
		s.RevisionNo = "0"
	}
	if s.PublishDate == "" {
		s.PublishDate = time.Now().Format("2006-01-02")
	}
	return s
}
