package http

import (
	"net/http"

	"travel-marketplace-backend/internal/domain"
)

func (h *Handler) CreateGuideRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body createGuideRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	gr, err := h.svc.GuideRequests.CreateGuideRequest(r.Context(), a, body.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, gr)
}

func (h *Handler) ListGuideRequests(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	list, err := h.svc.GuideRequests.ListGuideRequests(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.GuideRequest{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateGuideRequestStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}
	decision, err := h.svc.GuideRequests.Transition(r.Context(), a, pathVar(r, "id"), domain.RequestStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (h *Handler) DeleteGuideRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.GuideRequests.DeleteGuideRequest(r.Context(), a, pathVar(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
