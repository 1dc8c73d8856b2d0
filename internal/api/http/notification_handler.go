package http

import (
	"net/http"
	"strconv"

	"loaner-backend/internal/service"
)

// NotificationHandler exposes the notification audit log
type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListByReservation returns the notification rows for one reservation
func (h *NotificationHandler) ListByReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	logs, err := h.notifications.ListByReservation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// ListFailed returns failed notifications for manual follow-up
func (h *NotificationHandler) ListFailed(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "invalid limit")
			return
		}
		limit = parsed
	}
	logs, err := h.notifications.ListFailed(r.Context(), int32(limit))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Stats aggregates notification counts by type, status and day
func (h *NotificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, endDate := q.Get("start_date"), q.Get("end_date")
	if startDate == "" || endDate == "" {
		writeBadRequest(w, "start_date and end_date query parameters are required")
		return
	}
	stats, err := h.notifications.Stats(r.Context(), startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
