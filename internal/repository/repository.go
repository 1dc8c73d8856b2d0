package repository

import (
	"context"
	"time"

	"loaner-backend/internal/domain"
)

type EquipmentRepository interface {
	Create(ctx context.Context, unit *domain.EquipmentUnit) error
	GetByID(ctx context.Context, id int32) (*domain.EquipmentUnit, error)
	GetByCode(ctx context.Context, site, code string) (*domain.EquipmentUnit, error)
	List(ctx context.Context, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error)
	ListByType(ctx context.Context, equipmentType domain.EquipmentType, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error)
	// FindAvailable returns up to limit available units of a site/type,
	// ordered by unit code ascending (first-come-first-served, no
	// randomization).
	FindAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, limit int32) ([]domain.EquipmentUnit, error)
	ListInUse(ctx context.Context, site string) ([]domain.InUseUnit, error)
	UpdateDetails(ctx context.Context, unit *domain.EquipmentUnit) error
	// MarkInUse flips available -> in_use with holder and reservation set,
	// as a single conditional update. sql.ErrNoRows means the unit was not
	// available (lost race or wrong state).
	MarkInUse(ctx context.Context, id, reservationID int32, holder string) (*domain.EquipmentUnit, error)
	// MarkAvailable flips in_use -> available and clears holder and
	// reservation. sql.ErrNoRows means the unit was not in use.
	MarkAvailable(ctx context.Context, id int32) (*domain.EquipmentUnit, error)
	// ReleaseByReservation frees every unit whose open usage record points
	// at the reservation; used by the cancellation path.
	ReleaseByReservation(ctx context.Context, reservationID int32) error
	SetMaintenance(ctx context.Context, id int32, maintenance bool) (*domain.EquipmentUnit, error)
	// MaxCodeSuffix returns the highest numeric code suffix in use for a
	// type, 0 if none exist yet.
	MaxCodeSuffix(ctx context.Context, equipmentType domain.EquipmentType) (int32, error)
}

type InventoryRepository interface {
	Get(ctx context.Context, site string, equipmentType domain.EquipmentType) (*domain.CapacityPool, error)
	ListBySite(ctx context.Context, site string) ([]domain.CapacityPool, error)
	ListAll(ctx context.Context) ([]domain.CapacityPool, error)
	ListSites(ctx context.Context) ([]string, error)
	SetQuantities(ctx context.Context, site string, equipmentType domain.EquipmentType, total, available, maintenance int32) (*domain.CapacityPool, error)
	// AdjustAvailable applies a delta to the stored baseline under the
	// guard that the result stays >= 0; the conditional update returns
	// sql.ErrNoRows when the guard fails, giving compare-and-decrement
	// semantics without external locking.
	AdjustAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, delta int32) (*domain.CapacityPool, error)
	// OverlappingReservedQuantity sums line-item quantities of reservations
	// at (site, type) whose window overlaps [start, end] and whose status
	// is neither cancelled nor returned.
	OverlappingReservedQuantity(ctx context.Context, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error)
	LowStock(ctx context.Context, threshold int32) ([]domain.CapacityPool, error)
	Utilization(ctx context.Context, site, startDate, endDate string) ([]domain.PoolUtilization, error)
	// AcquireSiteTypeLock takes the transaction-scoped advisory lock that
	// serializes booking and unit creation per (site, type). Only
	// meaningful on a transaction handle.
	AcquireSiteTypeLock(ctx context.Context, site string, equipmentType domain.EquipmentType) error
}

type ReservationRepository interface {
	// Create inserts the header and its line items. Callers run it inside
	// a store transaction; the repository does not open one itself.
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userAlias string) ([]domain.Reservation, error)
	ListBySite(ctx context.Context, site, startDate, endDate string) ([]domain.Reservation, error)
	ListOverlapping(ctx context.Context, startDate, endDate string) ([]domain.Reservation, error)
	ListOverdue(ctx context.Context, today string) ([]domain.Reservation, error)
	ListPendingSetup(ctx context.Context, site, today string) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error)
	// MarkCancelled sets status to cancelled only if the reservation is not
	// already cancelled; sql.ErrNoRows otherwise.
	MarkCancelled(ctx context.Context, id int32) error
}

type UsageHistoryRepository interface {
	Open(ctx context.Context, equipmentID, reservationID int32, userAlias string) error
	CloseByEquipment(ctx context.Context, equipmentID int32) error
	CloseByReservation(ctx context.Context, reservationID int32) error
	ListByEquipment(ctx context.Context, equipmentID int32) ([]domain.UsageRecord, error)
	ListByUser(ctx context.Context, userAlias string) ([]domain.UnitUsage, error)
}

type SiteManagerRepository interface {
	Create(ctx context.Context, m *domain.SiteManager) error
	ListBySite(ctx context.Context, site string, activeOnly bool) ([]domain.SiteManager, error)
	ListActive(ctx context.Context) ([]domain.SiteManager, error)
	ListByAlias(ctx context.Context, userAlias string) ([]domain.SiteManager, error)
	SetActive(ctx context.Context, id int32, active bool) (*domain.SiteManager, error)
	Stats(ctx context.Context) ([]domain.SiteManagerStats, error)
}

type NotificationLogRepository interface {
	Create(ctx context.Context, log *domain.NotificationLog) error
	UpdateStatus(ctx context.Context, id int32, status domain.NotificationStatus, sentAt time.Time) error
	ListByReservation(ctx context.Context, reservationID int32) ([]domain.NotificationLog, error)
	ListFailed(ctx context.Context, limit int32) ([]domain.NotificationLog, error)
	// ListRetryCandidates returns failed notifications with fewer than
	// maxRetries failures for the same reservation/type/recipient.
	ListRetryCandidates(ctx context.Context, maxRetries int32) ([]domain.NotificationLog, error)
	Stats(ctx context.Context, startDate, endDate string) ([]domain.NotificationStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repositories bundles every repository bound to one database handle.
type Repositories interface {
	Equipment() EquipmentRepository
	Inventory() InventoryRepository
	Reservations() ReservationRepository
	UsageHistory() UsageHistoryRepository
	SiteManagers() SiteManagerRepository
	NotificationLogs() NotificationLogRepository
}

// Store is the storage entry point handed to services. InTx runs fn with
// repositories bound to a single transaction: commit when fn returns nil,
// full rollback on error or panic, so no partial state is ever visible.
type Store interface {
	Repositories
	InTx(ctx context.Context, fn func(Repositories) error) error
}
