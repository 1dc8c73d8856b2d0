package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"loaner-backend/internal/domain"
	"loaner-backend/internal/service"
)

// EquipmentHandler exposes the physical catalog and unit assignment
type EquipmentHandler struct {
	equipment service.EquipmentService
}

func NewEquipmentHandler(equipment service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment}
}

type createUnitRequest struct {
	Code         string               `json:"equipment_code"`
	Type         domain.EquipmentType `json:"equipment_type"`
	Site         string               `json:"site"`
	Model        string               `json:"model"`
	SerialNumber string               `json:"serial_number"`
	PurchaseDate *string              `json:"purchase_date"`
}

// Create provisions a unit; an empty code is generated server-side
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	unit := &domain.EquipmentUnit{
		Code:         req.Code,
		Type:         req.Type,
		Site:         req.Site,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		PurchaseDate: req.PurchaseDate,
	}
	created, err := h.equipment.CreateUnit(r.Context(), unit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetByCode looks up a unit by site and code
func (h *EquipmentHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	unit, err := h.equipment.GetByCode(r.Context(), vars["site"], vars["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// List filters units by site, optional status and optional type
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	site := q.Get("site")
	status := domain.EquipmentStatus(q.Get("status"))

	if raw := q.Get("equipment_type"); raw != "" {
		list, err := h.equipment.ListByType(r.Context(), domain.EquipmentType(raw), site, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := h.equipment.List(r.Context(), site, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListInUse returns in-use units joined with their reservations
func (h *EquipmentHandler) ListInUse(w http.ResponseWriter, r *http.Request) {
	list, err := h.equipment.ListInUse(r.Context(), r.URL.Query().Get("site"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type updateUnitRequest struct {
	Model        string  `json:"model"`
	SerialNumber string  `json:"serial_number"`
	PurchaseDate *string `json:"purchase_date"`
}

// Update edits unit details that do not participate in assignment
func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	unit := &domain.EquipmentUnit{
		ID:           id,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		PurchaseDate: req.PurchaseDate,
	}
	updated, err := h.equipment.UpdateDetails(r.Context(), unit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type maintenanceRequest struct {
	Maintenance bool `json:"maintenance"`
}

// SetMaintenance moves a unit in or out of maintenance
func (h *EquipmentHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	unit, err := h.equipment.SetMaintenance(r.Context(), id, req.Maintenance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

type assignRequest struct {
	ReservationID int32                `json:"reservation_id"`
	Holder        string               `json:"user_alias"`
	Site          string               `json:"site"`
	EquipmentType domain.EquipmentType `json:"equipment_type"`
}

// Assign hands a specific unit to a reservation holder
func (h *EquipmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ReservationID <= 0 || req.Holder == "" {
		writeBadRequest(w, "reservation_id and user_alias are required")
		return
	}
	unit, err := h.equipment.Assign(r.Context(), id, req.ReservationID, req.Holder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// AssignNext hands the first available unit of a pool to a reservation
func (h *EquipmentHandler) AssignNext(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ReservationID <= 0 || req.Holder == "" || req.Site == "" {
		writeBadRequest(w, "reservation_id, user_alias and site are required")
		return
	}
	unit, err := h.equipment.AssignForReservation(r.Context(), req.Site, req.EquipmentType, req.ReservationID, req.Holder)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// Return releases a unit back to the pool
func (h *EquipmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	unit, err := h.equipment.Return(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// History returns the usage records for one unit
func (h *EquipmentHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	records, err := h.equipment.UsageHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// UserHistory returns the usage records for one user across units
func (h *EquipmentHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	alias := mux.Vars(r)["alias"]
	records, err := h.equipment.UserUsageHistory(r.Context(), alias)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
