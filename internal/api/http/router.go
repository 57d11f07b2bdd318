package http

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"travel-marketplace-backend/internal/security"
)

// NewRouter registers every API route under /api/v1 and wraps the router with CORS.
// Route names are the keys of config.EndpointSecurityConfig.
func NewRouter(h *Handler, tm security.TokenManager, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name("health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	RegisterRequestRoutes(api, h)
	RegisterGuideRequestRoutes(api, h)
	RegisterBookingRoutes(api, h)
	RegisterGuideRoutes(api, h)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})(router)
}

func RegisterRequestRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/requests", h.CreateRequest).Methods(http.MethodPost).Name("requests.create")
	r.HandleFunc("/requests", h.ListRequests).Methods(http.MethodGet).Name("requests.list")
	r.HandleFunc("/requests/{id}", h.GetRequest).Methods(http.MethodGet).Name("requests.get")
	r.HandleFunc("/requests/{id}/status", h.UpdateRequestStatus).Methods(http.MethodPatch).Name("requests.status")
}

func RegisterGuideRequestRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/guide-requests", h.CreateGuideRequest).Methods(http.MethodPost).Name("guideRequests.create")
	r.HandleFunc("/guide-requests", h.ListGuideRequests).Methods(http.MethodGet).Name("guideRequests.list")
	r.HandleFunc("/guide-requests/{id}/status", h.UpdateGuideRequestStatus).Methods(http.MethodPatch).Name("guideRequests.status")
	r.HandleFunc("/guide-requests/{id}", h.DeleteGuideRequest).Methods(http.MethodDelete).Name("guideRequests.delete")
}

func RegisterBookingRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost).Name("bookings.create")
	r.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet).Name("bookings.list")
	r.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet).Name("bookings.get")
	r.HandleFunc("/bookings/{id}/status", h.UpdateBookingStatus).Methods(http.MethodPatch).Name("bookings.status")
}

func RegisterGuideRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/packages/{id}/guides", h.AssignGuides).Methods(http.MethodPost).Name("packages.assignGuides")
	r.HandleFunc("/packages/{id}/guides/{guideId}", h.UnassignGuide).Methods(http.MethodDelete).Name("packages.unassignGuide")
	r.HandleFunc("/guides/{id}", h.GetGuide).Methods(http.MethodGet).Name("guides.get")
	r.HandleFunc("/guides/{id}/earnings/{bookingId}/paid", h.MarkEarningPaid).Methods(http.MethodPost).Name("guides.markPaid")
	r.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet).Name("notifications.list")
}
