package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"loaner-backend/internal/service"
)

// Services bundles the service layer for route registration
type Services struct {
	Availability service.AvailabilityService
	Reservation  service.ReservationService
	Equipment    service.EquipmentService
	Inventory    service.InventoryService
	SiteManager  service.SiteManagerService
	Notification service.NotificationService
}

// NewRouter builds the HTTP API with all routes and middleware registered
func NewRouter(services *Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	availability := NewAvailabilityHandler(services.Availability)
	api.HandleFunc("/availability", availability.Check).Methods("GET")
	api.HandleFunc("/availability/alternatives", availability.Alternatives).Methods("GET")

	reservations := NewReservationHandler(services.Reservation)
	api.HandleFunc("/reservations", reservations.Book).Methods("POST")
	api.HandleFunc("/reservations", reservations.List).Methods("GET")
	api.HandleFunc("/reservations/overdue", reservations.ListOverdue).Methods("GET")
	api.HandleFunc("/reservations/pending-setup", reservations.ListPendingSetup).Methods("GET")
	api.HandleFunc("/reservations/{id:[0-9]+}", reservations.Get).Methods("GET")
	api.HandleFunc("/reservations/{id:[0-9]+}/status", reservations.UpdateStatus).Methods("PUT")
	api.HandleFunc("/reservations/{id:[0-9]+}/cancel", reservations.Cancel).Methods("POST")

	notifications := NewNotificationHandler(services.Notification)
	api.HandleFunc("/reservations/{id:[0-9]+}/notifications", notifications.ListByReservation).Methods("GET")
	api.HandleFunc("/notifications/failed", notifications.ListFailed).Methods("GET")
	api.HandleFunc("/notifications/stats", notifications.Stats).Methods("GET")

	equipment := NewEquipmentHandler(services.Equipment)
	api.HandleFunc("/equipment", equipment.Create).Methods("POST")
	api.HandleFunc("/equipment", equipment.List).Methods("GET")
	api.HandleFunc("/equipment/in-use", equipment.ListInUse).Methods("GET")
	api.HandleFunc("/equipment/assign", equipment.AssignNext).Methods("POST")
	api.HandleFunc("/equipment/{id:[0-9]+}", equipment.Update).Methods("PUT")
	api.HandleFunc("/equipment/{id:[0-9]+}/assign", equipment.Assign).Methods("POST")
	api.HandleFunc("/equipment/{id:[0-9]+}/return", equipment.Return).Methods("POST")
	api.HandleFunc("/equipment/{id:[0-9]+}/maintenance", equipment.SetMaintenance).Methods("PUT")
	api.HandleFunc("/equipment/{id:[0-9]+}/history", equipment.History).Methods("GET")
	api.HandleFunc("/equipment/{site}/{code}", equipment.GetByCode).Methods("GET")

	api.HandleFunc("/users/{alias}/usage", equipment.UserHistory).Methods("GET")

	inventory := NewInventoryHandler(services.Inventory)
	api.HandleFunc("/inventory", inventory.List).Methods("GET")
	api.HandleFunc("/inventory", inventory.SetQuantities).Methods("PUT")
	api.HandleFunc("/inventory/adjust", inventory.Adjust).Methods("POST")
	api.HandleFunc("/inventory/low-stock", inventory.LowStock).Methods("GET")
	api.HandleFunc("/inventory/utilization", inventory.Utilization).Methods("GET")

	managers := NewSiteManagerHandler(services.SiteManager)
	api.HandleFunc("/site-managers", managers.Add).Methods("POST")
	api.HandleFunc("/site-managers", managers.List).Methods("GET")
	api.HandleFunc("/site-managers/stats", managers.Stats).Methods("GET")
	api.HandleFunc("/site-managers/{id:[0-9]+}/active", managers.SetActive).Methods("PUT")

	return router
}
