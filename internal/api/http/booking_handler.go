package http

import (
	"net/http"

	"travel-marketplace-backend/internal/domain"
)

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body createBookingBody
	if !decodeBody(w, r, &body) {
		return
	}
	b, err := h.svc.Bookings.CreateBooking(r.Context(), a, body.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	b, err := h.svc.Bookings.GetBooking(r.Context(), a, pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Bookings.ListBookings(r.Context(), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body statusBody
	if !decodeBody(w, r, &body) {
		return
	}
	decision, err := h.svc.Bookings.UpdateStatus(r.Context(), a, pathVar(r, "id"), domain.BookingStatus(body.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}
