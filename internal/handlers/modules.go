package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/models"
	"github.com/haserol/docpanel/internal/modules"
	"github.com/haserol/docpanel/internal/scope"
)

// ModulesHandler exposes one load/replace endpoint pair per record family
// under /api/modules/<name>. All families share the same replace-all
// semantics, so the wiring is a single generic route.
type ModulesHandler struct {
	DB    *gorm.DB
	Chain *identity.Chain
	Log   *zap.Logger
}

func NewModulesHandler(db *gorm.DB, chain *identity.Chain, log *zap.Logger) *ModulesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModulesHandler{DB: db, Chain: chain, Log: log}
}

func (h *ModulesHandler) Register(mux *http.ServeMux) {
	registerModule[models.Permit](h, mux, "permits")
	registerModule[models.StaffCertificate](h, mux, "certificates")
	registerModule[models.FumigationLicense](h, mux, "fumigation-license")
	registerModule[models.InsurancePolicy](h, mux, "insurance")
	registerModule[models.WasteDisposalRecord](h, mux, "waste-disposal")
	registerModule[models.Product](h, mux, "products")
	registerModule[models.ContingencyPlanEntry](h, mux, "contingency-plan")
}

func registerModule[T any, PT interface {
	*T
	modules.Row
}](h *ModulesHandler, mux *http.ServeMux, name string) {
	store := modules.NewStore[T, PT](h.DB)
	mux.HandleFunc("/api/modules/"+name, func(w http.ResponseWriter, r *http.Request) {
		ident := identityFrom(r, h.Chain)
		sc, ok := scopeFrom(r, ident)
		if !ok {
			// rejected before any network write; the only client-side
			// validation the editors perform
			httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			rows, err := store.Load(r.Context(), sc)
			if err != nil {
				h.Log.Error("module load failed", zap.String("module", name), zap.Error(err))
				httpx.JSONError(w, http.StatusInternalServerError, "load_failed", nil)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"items": rows})
		case http.MethodPut, http.MethodPost:
			if !isStaff(ident) {
				httpx.JSONError(w, http.StatusForbidden, "staff_only", nil)
				return
			}
			var body struct {
				Rows []T `json:"rows"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
				return
			}
			if err := store.Replace(r.Context(), sc, body.Rows); err != nil {
				if errors.Is(err, scope.ErrInvalidScope) {
					httpx.JSONError(w, http.StatusBadRequest, "no_scope_selected", nil)
					return
				}
				h.Log.Error("module save failed", zap.String("module", name), zap.Error(err))
				httpx.JSONError(w, http.StatusInternalServerError, "save_failed", nil)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"saved": len(body.Rows)})
		default:
			w.Header().Set("Allow", "GET,PUT,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
}
