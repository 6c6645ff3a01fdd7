package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type TagHandler struct {
	service ports.TagService
}

func NewTagHandler(service ports.TagService) *TagHandler {
	return &TagHandler{service: service}
}

func (h *TagHandler) Cloud(w http.ResponseWriter, r *http.Request) {
	cloud, err := h.service.Cloud(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cloud)
}
