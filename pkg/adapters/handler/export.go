package handler

import (
	"fmt"
	"net/http"

	"github.com/wadjakorntonsri/interne/pkg/core/services"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type ExportHandler struct {
	service ports.ExportService
}

func NewExportHandler(service ports.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export serves the actor's entries as a JSON download.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Export(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFilename(out.ExportedAt)))
	writeJSON(w, http.StatusOK, out)
}
