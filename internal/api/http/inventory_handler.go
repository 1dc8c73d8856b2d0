package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/service"
)

// InventoryHandler exposes the capacity pool baselines
type InventoryHandler struct {
	inventory service.InventoryService
}

func NewInventoryHandler(inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List returns pools, optionally filtered by site
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	if site == "" {
		pools, err := h.inventory.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pools)
		return
	}
	pools, err := h.inventory.ListBySite(r.Context(), site)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

type setQuantitiesRequest struct {
	Site                string               `json:"site"`
	EquipmentType       domain.EquipmentType `json:"equipment_type"`
	TotalQuantity       int32                `json:"total_quantity"`
	AvailableQuantity   int32                `json:"available_quantity"`
	MaintenanceQuantity int32                `json:"maintenance_quantity"`
}

// SetQuantities upserts a pool's counters
func (h *InventoryHandler) SetQuantities(w http.ResponseWriter, r *http.Request) {
	var req setQuantitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Site == "" {
		writeBadRequest(w, "site is required")
		return
	}
	if _, err := domain.CodePrefix(req.EquipmentType); err != nil {
		writeBadRequest(w, "invalid equipment_type")
		return
	}

	pool, err := h.inventory.SetQuantities(r.Context(), req.Site, req.EquipmentType,
		req.TotalQuantity, req.AvailableQuantity, req.MaintenanceQuantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

type adjustRequest struct {
	Site          string               `json:"site"`
	EquipmentType domain.EquipmentType `json:"equipment_type"`
	Delta         int32                `json:"delta"`
}

// Adjust moves a pool baseline by a delta; underflow is rejected
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Site == "" {
		writeBadRequest(w, "site is required")
		return
	}
	pool, err := h.inventory.AdjustAvailable(r.Context(), req.Site, req.EquipmentType, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

// LowStock returns pools at or below a threshold
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := int64(2)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "invalid threshold")
			return
		}
		threshold = parsed
	}
	pools, err := h.inventory.LowStock(r.Context(), int32(threshold))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

// Utilization reports reserved-versus-total per pool over a window
func (h *InventoryHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, endDate := q.Get("start_date"), q.Get("end_date")
	if startDate == "" || endDate == "" {
		writeBadRequest(w, "start_date and end_date query parameters are required")
		return
	}
	report, err := h.inventory.Utilization(r.Context(), q.Get("site"), startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
