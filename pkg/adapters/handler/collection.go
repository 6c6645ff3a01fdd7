package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type CollectionHandler struct {
	service ports.CollectionService
}

func NewCollectionHandler(service ports.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

type nameRequest struct {
	Name string `json:"name"`
}

type inviteRequest struct {
	InviteCode string `json:"invite_code"`
}

type inviteResponse struct {
	InviteCode string `json:"invite_code"`
}

type joinResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context(), actorID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.Create(r.Context(), actorID(r), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, collection)
}

func (h *CollectionHandler) Show(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Show(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *CollectionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	collection, err := h.service.Join(r.Context(), actorID(r), req.InviteCode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, joinResponse{ID: collection.ID, Name: collection.Name})
}

func (h *CollectionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Rename(r.Context(), actorID(r), chi.URLParam(r, "id"), req.Name); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) RegenerateInvite(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.RegenerateInvite(r.Context(), actorID(r), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if code == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, inviteResponse{InviteCode: code})
}

func (h *CollectionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Leave(r.Context(), actorID(r), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveMember(r.Context(), actorID(r), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
