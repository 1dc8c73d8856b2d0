package http

import (
	"encoding/json"
	"net/http"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/service"
)

// SiteManagerHandler manages the notification recipient roster
type SiteManagerHandler struct {
	managers service.SiteManagerService
}

func NewSiteManagerHandler(managers service.SiteManagerService) *SiteManagerHandler {
	return &SiteManagerHandler{managers: managers}
}

type addManagerRequest struct {
	Site      string `json:"site"`
	UserAlias string `json:"user_alias"`
	Email     string `json:"email"`
}

// Add registers a manager for a site
func (h *SiteManagerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Site == "" || req.UserAlias == "" {
		writeBadRequest(w, "site and user_alias are required")
		return
	}

	manager, err := h.managers.Add(r.Context(), &domain.SiteManager{
		Site:      req.Site,
		UserAlias: req.UserAlias,
		Email:     req.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, manager)
}

// List returns managers, filtered by user alias or by site and active flag
func (h *SiteManagerHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	site := q.Get("site")
	activeOnly := q.Get("active") == "true"

	if alias := q.Get("user_alias"); alias != "" {
		list, err := h.managers.ListByAlias(r.Context(), alias)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	if site == "" {
		list, err := h.managers.ListActive(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := h.managers.ListBySite(r.Context(), site, activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetActive enables or disables a manager without deleting the row
func (h *SiteManagerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	manager, err := h.managers.SetActive(r.Context(), id, req.Active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manager)
}

// Stats reports manager counts per site
func (h *SiteManagerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.managers.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
