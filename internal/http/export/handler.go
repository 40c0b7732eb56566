package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pennywise/internal/api"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download renders into a buffer first so failures still get a proper
// status code.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := api.ParseListFilter(r.URL.Query())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	var buf bytes.Buffer

	n, err := h.svc.WriteCSV(r.Context(), filter, &buf)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "failed to write export", "rows", n, "error", err)
	}
}
