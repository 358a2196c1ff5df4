package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/haserol/docpanel/internal/httpx"
	"github.com/haserol/docpanel/internal/identity"
	"github.com/haserol/docpanel/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	Store storage.ObjectStore
	Chain *identity.Chain
	Log   *zap.Logger
}

func NewUploadHandler(store storage.ObjectStore, chain *identity.Chain, log *zap.Logger) *UploadHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UploadHandler{Store: store, Chain: chain, Log: log}
}

// Upload pushes a file (visit photo, scanned PDF) to the object store and
// returns its public URL. The URL is opaque to the rest of the console.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if !isStaff(identityFrom(r, h.Chain)) {
		httpx.JSONError(w, http.StatusForbidden, "staff_only", nil)
		return
	}
	if h.Store == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "storage_not_configured", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()

	url, err := h.Store.Upload(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			httpx.JSONError(w, http.StatusServiceUnavailable, "storage_not_configured", nil)
			return
		}
		h.Log.Error("upload failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
