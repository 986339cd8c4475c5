package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/adupont/portfolio/internal/store"
)

// maxImportBytes caps an import body. Exports of realistic portfolios with
// inline images run to a few megabytes, so allow some headroom.
const maxImportBytes = 32 << 20

// AdminHandler covers whole-dataset operations: export, import, reset.
type AdminHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAdminHandler(store *store.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger,
	}
}

// HandleExport returns the full dataset as pretty-printed JSON.
//
// HTTP: GET /api/admin/export
//
// The Content-Disposition header makes a browser download the response as a
// file instead of rendering it.
func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	exported, err := h.store.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio-export.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, exported); err != nil {
		h.logger.Error("failed to write export", slog.String("error", err.Error()))
	}
}

// HandleImport replaces the full dataset with an uploaded export.
//
// HTTP: POST /api/admin/import
// REQUEST BODY: a previously exported JSON document
//
// The store validates the document before touching anything; a rejected
// import leaves the current data fully intact.
func (h *AdminHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "could not read import body"})
		return
	}

	if err := h.store.Import(r.Context(), string(body)); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("portfolio data imported", slog.Int("bytes", len(body)))
	writeJSON(w, http.StatusOK, map[string]string{"message": "import complete"})
}

// HandleReset discards all data and restores the built-in defaults.
//
// HTTP: POST /api/admin/reset
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("portfolio data reset to defaults")
	writeJSON(w, http.StatusOK, map[string]string{"message": "data reset to defaults"})
}
