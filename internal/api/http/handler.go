package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/service"
)

// Services bundles the workflow services exposed over HTTP.
type Services struct {
	Requests      service.RequestService
	GuideRequests service.GuideRequestService
	Bookings      service.BookingService
	Registry      service.AssignmentRegistry
	Earnings      service.EarningsService
	Notifications service.NotificationService
}

type Handler struct {
	svc Services
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// actor returns the authenticated caller, answering 401 when the middleware did not set one.
func actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := ActorFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authentication required")
	}
	return a, ok
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
