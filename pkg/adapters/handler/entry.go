package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// tagList accepts either "go, sql" or ["go", "sql"].
type tagList []string

func (t *tagList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = domain.SplitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

type entryRequest struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Duration     int64   `json:"duration"`
	Interval     string  `json:"interval"`
	Tags         tagList `json:"tags"`
	CollectionID string  `json:"collection_id"`
}

func (req entryRequest) input() domain.EntryInput {
	return domain.EntryInput{
		URL:          req.URL,
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Interval:     req.Interval,
		Tags:         req.Tags,
		CollectionID: req.CollectionID,
	}
}

type createdResponse struct {
	ID string `json:"id"`
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context(), actorID(r), r.URL.Query().Get("filter"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.service.Create(r.Context(), actorID(r), req.input())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: entry.ID})
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Update(r.Context(), actorID(r), chi.URLParam(r, "id"), req.input()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) Visit(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Visit(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *EntryHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListByTag(r.Context(), actorID(r), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
