package http

import (
	"net/http"
	"strconv"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/service"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	page := queryInt32(r, "page", 1)
	pageSize := min(queryInt32(r, "page_size", service.DefaultNotificationPageSize), service.MaxNotificationPageSize)

	notes, total, err := h.svc.Notifications.GetNotifications(r.Context(), a.ID, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: notes, Total: total, Page: page, PageSize: pageSize})
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		return def
	}
	return int32(n)
}
