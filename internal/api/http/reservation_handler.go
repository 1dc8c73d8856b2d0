package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"loaner-backend/internal/domain"
	"loaner-backend/internal/service"
)

// ReservationHandler exposes the booking ledger over HTTP
type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type bookRequest struct {
	UserAlias  string            `json:"user_alias"`
	PickupSite string            `json:"pickup_site"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Equipment  []domain.LineItem `json:"equipment"`
}

// Book creates a reservation, checking capacity for every line item
func (h *ReservationHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	res := &domain.Reservation{
		UserAlias:  req.UserAlias,
		PickupSite: req.PickupSite,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Equipment:  req.Equipment,
	}

	created, err := h.reservations.Book(r.Context(), res)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns a reservation with its line items
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.reservations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// List filters reservations by user alias, by site and date window, or by
// date window alone (active reservations overlapping it, any site)
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, endDate := q.Get("start_date"), q.Get("end_date")

	if alias := q.Get("user_alias"); alias != "" {
		list, err := h.reservations.ListByUser(r.Context(), alias)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	site := q.Get("site")
	if site == "" {
		if startDate == "" || endDate == "" {
			writeBadRequest(w, "user_alias, site, or a start_date/end_date window is required")
			return
		}
		list, err := h.reservations.ListOverlapping(r.Context(), startDate, endDate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := h.reservations.ListBySite(r.Context(), site, startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Cancel flips the reservation to cancelled and frees assigned units
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.reservations.Cancel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type statusUpdateRequest struct {
	Status domain.ReservationStatus `json:"status"`
}

// UpdateStatus moves a reservation through its lifecycle
func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	res, err := h.reservations.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListOverdue returns reservations whose window has passed while still out
func (h *ReservationHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	list, err := h.reservations.ListOverdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPendingSetup returns confirmed reservations starting today or earlier
func (h *ReservationHandler) ListPendingSetup(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	if site == "" {
		writeBadRequest(w, "site query parameter is required")
		return
	}
	list, err := h.reservations.ListPendingSetup(r.Context(), site)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// pathID extracts a numeric {name} path variable, writing a 400 on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return int32(id), true
}
