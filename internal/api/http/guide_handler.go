package http

import "net/http"

func (h *Handler) AssignGuides(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	var body assignGuidesBody
	if !decodeBody(w, r, &body) {
		return
	}
	pkg, err := h.svc.Registry.AssignGuides(r.Context(), a, pathVar(r, "id"), body.GuideIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (h *Handler) UnassignGuide(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.Registry.UnassignGuide(r.Context(), a, pathVar(r, "id"), pathVar(r, "guideId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetGuide(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	g, err := h.svc.Earnings.GetGuide(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) MarkEarningPaid(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	guideID, bookingID := pathVar(r, "id"), pathVar(r, "bookingId")
	amount, err := h.svc.Earnings.MarkPaid(r.Context(), a, guideID, bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, markPaidResponse{GuideID: guideID, BookingID: bookingID, Amount: amount})
}
