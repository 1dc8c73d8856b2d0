package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, unit *domain.EquipmentUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.EquipmentUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) GetByCode(ctx context.Context, site, code string) (*domain.EquipmentUnit, error) {
	args := m.Called(ctx, site, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) List(ctx context.Context, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	args := m.Called(ctx, site, status)
	return args.Get(0).([]domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) ListByType(ctx context.Context, equipmentType domain.EquipmentType, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	args := m.Called(ctx, equipmentType, site, status)
	return args.Get(0).([]domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) FindAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, limit int32) ([]domain.EquipmentUnit, error) {
	args := m.Called(ctx, site, equipmentType, limit)
	return args.Get(0).([]domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) ListInUse(ctx context.Context, site string) ([]domain.InUseUnit, error) {
	args := m.Called(ctx, site)
	return args.Get(0).([]domain.InUseUnit), args.Error(1)
}
func (m *MockEquipmentRepo) UpdateDetails(ctx context.Context, unit *domain.EquipmentUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}
func (m *MockEquipmentRepo) MarkInUse(ctx context.Context, id, reservationID int32, holder string) (*domain.EquipmentUnit, error) {
	args := m.Called(ctx, id, reservationID, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) MarkAvailable(ctx context.Context, id int32) (*domain.EquipmentUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) ReleaseByReservation(ctx context.Context, reservationID int32) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}
func (m *MockEquipmentRepo) SetMaintenance(ctx context.Context, id int32, maintenance bool) (*domain.EquipmentUnit, error) {
	args := m.Called(ctx, id, maintenance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentUnit), args.Error(1)
}
func (m *MockEquipmentRepo) MaxCodeSuffix(ctx context.Context, equipmentType domain.EquipmentType) (int32, error) {
	args := m.Called(ctx, equipmentType)
	return args.Get(0).(int32), args.Error(1)
}

// MockInventoryRepo
type MockInventoryRepo struct {
	mock.Mock
}

func (m *MockInventoryRepo) Get(ctx context.Context, site string, equipmentType domain.EquipmentType) (*domain.CapacityPool, error) {
	args := m.Called(ctx, site, equipmentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) ListBySite(ctx context.Context, site string) ([]domain.CapacityPool, error) {
	args := m.Called(ctx, site)
	return args.Get(0).([]domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) ListAll(ctx context.Context) ([]domain.CapacityPool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) ListSites(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockInventoryRepo) SetQuantities(ctx context.Context, site string, equipmentType domain.EquipmentType, total, available, maintenance int32) (*domain.CapacityPool, error) {
	args := m.Called(ctx, site, equipmentType, total, available, maintenance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) AdjustAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, delta int32) (*domain.CapacityPool, error) {
	args := m.Called(ctx, site, equipmentType, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) OverlappingReservedQuantity(ctx context.Context, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error) {
	args := m.Called(ctx, site, equipmentType, startDate, endDate)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockInventoryRepo) LowStock(ctx context.Context, threshold int32) ([]domain.CapacityPool, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]domain.CapacityPool), args.Error(1)
}
func (m *MockInventoryRepo) Utilization(ctx context.Context, site, startDate, endDate string) ([]domain.PoolUtilization, error) {
	args := m.Called(ctx, site, startDate, endDate)
	return args.Get(0).([]domain.PoolUtilization), args.Error(1)
}
func (m *MockInventoryRepo) AcquireSiteTypeLock(ctx context.Context, site string, equipmentType domain.EquipmentType) error {
	args := m.Called(ctx, site, equipmentType)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListByUser(ctx context.Context, userAlias string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userAlias)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListBySite(ctx context.Context, site, startDate, endDate string) ([]domain.Reservation, error) {
	args := m.Called(ctx, site, startDate, endDate)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListOverlapping(ctx context.Context, startDate, endDate string) ([]domain.Reservation, error) {
	args := m.Called(ctx, startDate, endDate)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListOverdue(ctx context.Context, today string) ([]domain.Reservation, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListPendingSetup(ctx context.Context, site, today string) ([]domain.Reservation, error) {
	args := m.Called(ctx, site, today)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) MarkCancelled(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUsageHistoryRepo
type MockUsageHistoryRepo struct {
	mock.Mock
}

func (m *MockUsageHistoryRepo) Open(ctx context.Context, equipmentID, reservationID int32, userAlias string) error {
	args := m.Called(ctx, equipmentID, reservationID, userAlias)
	return args.Error(0)
}
func (m *MockUsageHistoryRepo) CloseByEquipment(ctx context.Context, equipmentID int32) error {
	args := m.Called(ctx, equipmentID)
	return args.Error(0)
}
func (m *MockUsageHistoryRepo) CloseByReservation(ctx context.Context, reservationID int32) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}
func (m *MockUsageHistoryRepo) ListByEquipment(ctx context.Context, equipmentID int32) ([]domain.UsageRecord, error) {
	args := m.Called(ctx, equipmentID)
	return args.Get(0).([]domain.UsageRecord), args.Error(1)
}
func (m *MockUsageHistoryRepo) ListByUser(ctx context.Context, userAlias string) ([]domain.UnitUsage, error) {
	args := m.Called(ctx, userAlias)
	return args.Get(0).([]domain.UnitUsage), args.Error(1)
}

// MockSiteManagerRepo
type MockSiteManagerRepo struct {
	mock.Mock
}

func (m *MockSiteManagerRepo) Create(ctx context.Context, manager *domain.SiteManager) error {
	args := m.Called(ctx, manager)
	return args.Error(0)
}
func (m *MockSiteManagerRepo) ListBySite(ctx context.Context, site string, activeOnly bool) ([]domain.SiteManager, error) {
	args := m.Called(ctx, site, activeOnly)
	return args.Get(0).([]domain.SiteManager), args.Error(1)
}
func (m *MockSiteManagerRepo) ListActive(ctx context.Context) ([]domain.SiteManager, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SiteManager), args.Error(1)
}
func (m *MockSiteManagerRepo) ListByAlias(ctx context.Context, userAlias string) ([]domain.SiteManager, error) {
	args := m.Called(ctx, userAlias)
	return args.Get(0).([]domain.SiteManager), args.Error(1)
}
func (m *MockSiteManagerRepo) SetActive(ctx context.Context, id int32, active bool) (*domain.SiteManager, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SiteManager), args.Error(1)
}
func (m *MockSiteManagerRepo) Stats(ctx context.Context) ([]domain.SiteManagerStats, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SiteManagerStats), args.Error(1)
}

// MockNotificationLogRepo
type MockNotificationLogRepo struct {
	mock.Mock
}

func (m *MockNotificationLogRepo) Create(ctx context.Context, log *domain.NotificationLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}
func (m *MockNotificationLogRepo) UpdateStatus(ctx context.Context, id int32, status domain.NotificationStatus, sentAt time.Time) error {
	args := m.Called(ctx, id, status, sentAt)
	return args.Error(0)
}
func (m *MockNotificationLogRepo) ListByReservation(ctx context.Context, reservationID int32) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, reservationID)
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}
func (m *MockNotificationLogRepo) ListFailed(ctx context.Context, limit int32) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}
func (m *MockNotificationLogRepo) ListRetryCandidates(ctx context.Context, maxRetries int32) ([]domain.NotificationLog, error) {
	args := m.Called(ctx, maxRetries)
	return args.Get(0).([]domain.NotificationLog), args.Error(1)
}
func (m *MockNotificationLogRepo) Stats(ctx context.Context, startDate, endDate string) ([]domain.NotificationStats, error) {
	args := m.Called(ctx, startDate, endDate)
	return args.Get(0).([]domain.NotificationStats), args.Error(1)
}
func (m *MockNotificationLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// mockStore binds the repo mocks into a Store. InTx runs the callback
// against the same mocks, so transaction-scoped expectations read naturally.
type mockStore struct {
	equipment    *MockEquipmentRepo
	inventory    *MockInventoryRepo
	reservations *MockReservationRepo
	usage        *MockUsageHistoryRepo
	managers     *MockSiteManagerRepo
	logs         *MockNotificationLogRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		equipment:    new(MockEquipmentRepo),
		inventory:    new(MockInventoryRepo),
		reservations: new(MockReservationRepo),
		usage:        new(MockUsageHistoryRepo),
		managers:     new(MockSiteManagerRepo),
		logs:         new(MockNotificationLogRepo),
	}
}

func (s *mockStore) Equipment() repository.EquipmentRepository { return s.equipment }
func (s *mockStore) Inventory() repository.InventoryRepository { return s.inventory }
func (s *mockStore) Reservations() repository.ReservationRepository { return s.reservations }
func (s *mockStore) UsageHistory() repository.UsageHistoryRepository { return s.usage }
func (s *mockStore) SiteManagers() repository.SiteManagerRepository { return s.managers }
func (s *mockStore) NotificationLogs() repository.NotificationLogRepository { return s.logs }

func (s *mockStore) InTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return fn(s)
}
