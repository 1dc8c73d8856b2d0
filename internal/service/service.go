package service

import (
	"context"

	"loaner-backend/internal/domain"
)

// AvailabilityService computes free capacity and proposes alternatives when
// a request cannot be met.
type AvailabilityService interface {
	// AvailableQuantity returns baseline availability minus the quantity
	// held by active reservations overlapping [startDate, endDate], never
	// negative. A missing pool row counts as zero.
	AvailableQuantity(ctx context.Context, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error)
	SuggestAlternatives(ctx context.Context, site string, equipmentType domain.EquipmentType, quantity int32, startDate, endDate string) ([]domain.Alternative, error)
}

// ReservationService owns the booking ledger lifecycle.
type ReservationService interface {
	// Book atomically checks capacity for every line item and commits the
	// header plus items, or fails with domain.ErrInsufficientCapacity and
	// writes nothing. The check and the insert run in one transaction
	// serialized per (site, type).
	Book(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	// Cancel flips the reservation to cancelled, frees any assigned units
	// and closes their usage records. Capacity recovery is implicit: the
	// availability sum excludes cancelled reservations, so the baseline is
	// deliberately untouched.
	Cancel(ctx context.Context, id int32) error
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error)
	Get(ctx context.Context, id int32) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userAlias string) ([]domain.Reservation, error)
	ListBySite(ctx context.Context, site, startDate, endDate string) ([]domain.Reservation, error)
	ListOverlapping(ctx context.Context, startDate, endDate string) ([]domain.Reservation, error)
	ListOverdue(ctx context.Context) ([]domain.Reservation, error)
	ListPendingSetup(ctx context.Context, site string) ([]domain.Reservation, error)
}

// EquipmentService manages the physical catalog and unit assignment.
type EquipmentService interface {
	// CreateUnit provisions a unit. An empty code is generated from the
	// type prefix and the next numeric suffix, serialized against
	// concurrent generation for the same pool.
	CreateUnit(ctx context.Context, unit *domain.EquipmentUnit) (*domain.EquipmentUnit, error)
	GetByCode(ctx context.Context, site, code string) (*domain.EquipmentUnit, error)
	List(ctx context.Context, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error)
	ListByType(ctx context.Context, equipmentType domain.EquipmentType, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error)
	ListInUse(ctx context.Context, site string) ([]domain.InUseUnit, error)
	UpdateDetails(ctx context.Context, unit *domain.EquipmentUnit) (*domain.EquipmentUnit, error)
	SetMaintenance(ctx context.Context, id int32, maintenance bool) (*domain.EquipmentUnit, error)

	// Assign binds one specific unit to a reservation; losing the
	// available -> in_use race surfaces domain.ErrNotAvailable.
	Assign(ctx context.Context, unitID, reservationID int32, holder string) (*domain.EquipmentUnit, error)
	// AssignForReservation picks the first available unit of (site, type)
	// in code order and assigns it.
	AssignForReservation(ctx context.Context, site string, equipmentType domain.EquipmentType, reservationID int32, holder string) (*domain.EquipmentUnit, error)
	// Return releases a unit; returning one that is not in use surfaces
	// domain.ErrInvalidState.
	Return(ctx context.Context, unitID int32) (*domain.EquipmentUnit, error)

	UsageHistory(ctx context.Context, unitID int32) ([]domain.UsageRecord, error)
	UserUsageHistory(ctx context.Context, userAlias string) ([]domain.UnitUsage, error)
}

// InventoryService manages the capacity pool baselines.
type InventoryService interface {
	Get(ctx context.Context, site string, equipmentType domain.EquipmentType) (*domain.CapacityPool, error)
	ListBySite(ctx context.Context, site string) ([]domain.CapacityPool, error)
	ListAll(ctx context.Context) ([]domain.CapacityPool, error)
	// SetQuantities upserts the pool counters (site onboarding and stock
	// corrections).
	SetQuantities(ctx context.Context, site string, equipmentType domain.EquipmentType, total, available, maintenance int32) (*domain.CapacityPool, error)
	// AdjustAvailable moves the baseline by delta; a negative delta that
	// would underflow fails with domain.ErrInsufficientCapacity.
	AdjustAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, delta int32) (*domain.CapacityPool, error)
	LowStock(ctx context.Context, threshold int32) ([]domain.CapacityPool, error)
	Utilization(ctx context.Context, site, startDate, endDate string) ([]domain.PoolUtilization, error)
}

type SiteManagerService interface {
	Add(ctx context.Context, m *domain.SiteManager) (*domain.SiteManager, error)
	ListBySite(ctx context.Context, site string, activeOnly bool) ([]domain.SiteManager, error)
	ListActive(ctx context.Context) ([]domain.SiteManager, error)
	// ListByAlias returns every site a user manages.
	ListByAlias(ctx context.Context, userAlias string) ([]domain.SiteManager, error)
	SetActive(ctx context.Context, id int32, active bool) (*domain.SiteManager, error)
	Stats(ctx context.Context) ([]domain.SiteManagerStats, error)
}

// NotificationService sends reservation lifecycle notifications and keeps
// the audit log. Send failures are recorded, never propagated into the
// reservation operations that triggered them.
type NotificationService interface {
	NotifyReservationConfirmed(ctx context.Context, reservation *domain.Reservation) error
	NotifyReservationCancelled(ctx context.Context, reservation *domain.Reservation) error
	NotifyOverdue(ctx context.Context, reservation *domain.Reservation) error
	ListByReservation(ctx context.Context, reservationID int32) ([]domain.NotificationLog, error)
	Stats(ctx context.Context, startDate, endDate string) ([]domain.NotificationStats, error)
	ListFailed(ctx context.Context, limit int32) ([]domain.NotificationLog, error)
	RetryFailed(ctx context.Context, maxRetries int32) (int, error)
	CleanupOldLogs(ctx context.Context, daysToKeep int) (int64, error)
}

// EmailService is the outbound mail boundary.
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
}
