package http

import (
	"net/http"
	"strconv"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/service"
)

// AvailabilityHandler answers capacity queries and alternative searches
type AvailabilityHandler struct {
	availability service.AvailabilityService
}

func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type availabilityQuery struct {
	site          string
	equipmentType domain.EquipmentType
	startDate     string
	endDate       string
}

func parseAvailabilityQuery(r *http.Request) (*availabilityQuery, string) {
	q := r.URL.Query()
	aq := &availabilityQuery{
		site:          q.Get("site"),
		equipmentType: domain.EquipmentType(q.Get("equipment_type")),
		startDate:     q.Get("start_date"),
		endDate:       q.Get("end_date"),
	}
	if aq.site == "" {
		return nil, "site query parameter is required"
	}
	if _, err := domain.CodePrefix(aq.equipmentType); err != nil {
		return nil, "invalid equipment_type"
	}
	start, err := time.Parse(domain.DateLayout, aq.startDate)
	if err != nil {
		return nil, "invalid start_date"
	}
	end, err := time.Parse(domain.DateLayout, aq.endDate)
	if err != nil {
		return nil, "invalid end_date"
	}
	if end.Before(start) {
		return nil, "end_date before start_date"
	}
	return aq, ""
}

// Check returns the free quantity for a pool over a date window
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	aq, msg := parseAvailabilityQuery(r)
	if msg != "" {
		writeBadRequest(w, msg)
		return
	}

	free, err := h.availability.AvailableQuantity(r.Context(), aq.site, aq.equipmentType, aq.startDate, aq.endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"site":               aq.site,
		"equipment_type":     aq.equipmentType,
		"start_date":         aq.startDate,
		"end_date":           aq.endDate,
		"available_quantity": free,
	})
}

// Alternatives proposes other sites and shifted windows for a request that
// cannot be met as asked
func (h *AvailabilityHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	aq, msg := parseAvailabilityQuery(r)
	if msg != "" {
		writeBadRequest(w, msg)
		return
	}
	quantity, err := strconv.ParseInt(r.URL.Query().Get("quantity"), 10, 32)
	if err != nil || quantity <= 0 {
		writeBadRequest(w, "invalid quantity")
		return
	}

	alternatives, err := h.availability.SuggestAlternatives(r.Context(), aq.site, aq.equipmentType, int32(quantity), aq.startDate, aq.endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	if alternatives == nil {
		alternatives = []domain.Alternative{}
	}
	writeJSON(w, http.StatusOK, alternatives)
}
