package http

import (
	"net/http"

	"travel-marketplace-backend/internal/domain"
)

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body createRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.svc.Requests.CreateRequest(r.Context(), a, body.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	req, err := h.svc.Requests.GetRequest(r.Context(), a, pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	reqs, err := h.svc.Requests.ListRequests(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []domain.Request{}
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (h *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}
	decision, err := h.svc.Requests.Transition(r.Context(), a, pathVar(r, "id"), domain.RequestStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
