package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"loaner-backend/internal/domain"
)

func TestReservationService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.inventory.On("AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeAmazonPC).Return(nil)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeAmazonPC, AvailableQuantity: 20}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-07-01", "2025-07-05").
			Return(int32(5), nil)
		store.reservations.On("Create", ctx, mock.AnythingOfType("*domain.Reservation")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Reservation).ID = 42
			}).Return(nil)

		res, err := svc.Book(ctx, &domain.Reservation{
			UserAlias:  "jdoe",
			PickupSite: "HND10",
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-05",
			Equipment:  []domain.LineItem{{EquipmentType: domain.EquipmentTypeAmazonPC, Quantity: 5}},
		})
		assert.NoError(t, err)
		assert.Equal(t, int32(42), res.ID)
		store.inventory.AssertCalled(t, "AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeAmazonPC)
	})

	t.Run("Insufficient capacity writes nothing", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.inventory.On("AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeMonitor).Return(nil)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeMonitor).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeMonitor, AvailableQuantity: 3}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeMonitor, "2025-07-01", "2025-07-05").
			Return(int32(1), nil)

		_, err := svc.Book(ctx, &domain.Reservation{
			UserAlias:  "jdoe",
			PickupSite: "HND10",
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-05",
			Equipment:  []domain.LineItem{{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 5}},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
		store.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("All line items are checked", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.inventory.On("AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeAmazonPC).Return(nil)
		store.inventory.On("AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeMonitor).Return(nil)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{AvailableQuantity: 10}, nil)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeMonitor).
			Return(&domain.CapacityPool{AvailableQuantity: 1}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-07-01", "2025-07-02").
			Return(int32(0), nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeMonitor, "2025-07-01", "2025-07-02").
			Return(int32(0), nil)

		_, err := svc.Book(ctx, &domain.Reservation{
			UserAlias:  "jdoe",
			PickupSite: "HND10",
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-02",
			Equipment: []domain.LineItem{
				{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 2},
				{EquipmentType: domain.EquipmentTypeAmazonPC, Quantity: 1},
			},
		})
		// The monitor line fails even though the laptop line would fit.
		assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
		store.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		cases := []struct {
			name string
			res  domain.Reservation
		}{
			{"missing alias", domain.Reservation{PickupSite: "HND10", StartDate: "2025-07-01", EndDate: "2025-07-02",
				Equipment: []domain.LineItem{{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 1}}}},
			{"bad start date", domain.Reservation{UserAlias: "jdoe", PickupSite: "HND10", StartDate: "07/01/2025", EndDate: "2025-07-02",
				Equipment: []domain.LineItem{{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 1}}}},
			{"end before start", domain.Reservation{UserAlias: "jdoe", PickupSite: "HND10", StartDate: "2025-07-05", EndDate: "2025-07-01",
				Equipment: []domain.LineItem{{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 1}}}},
			{"no line items", domain.Reservation{UserAlias: "jdoe", PickupSite: "HND10", StartDate: "2025-07-01", EndDate: "2025-07-02"}},
			{"zero quantity", domain.Reservation{UserAlias: "jdoe", PickupSite: "HND10", StartDate: "2025-07-01", EndDate: "2025-07-02",
				Equipment: []domain.LineItem{{EquipmentType: domain.EquipmentTypeMonitor, Quantity: 0}}}},
		}
		for _, tc := range cases {
			res := tc.res
			_, err := svc.Book(ctx, &res)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, tc.name)
		}
	})

	t.Run("Single-day reservation is valid", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.inventory.On("AcquireSiteTypeLock", ctx, "HND10", domain.EquipmentTypeAmazonPC).Return(nil)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{AvailableQuantity: 1}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-07-01", "2025-07-01").
			Return(int32(0), nil)
		store.reservations.On("Create", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)

		_, err := svc.Book(ctx, &domain.Reservation{
			UserAlias:  "jdoe",
			PickupSite: "HND10",
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-01",
			Equipment:  []domain.LineItem{{EquipmentType: domain.EquipmentTypeAmazonPC, Quantity: 1}},
		})
		assert.NoError(t, err)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success frees units and closes usage", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.reservations.On("GetByID", ctx, int32(7)).
			Return(&domain.Reservation{ID: 7, Status: domain.ReservationStatusConfirmed, UserAlias: "jdoe", PickupSite: "HND10"}, nil)
		store.reservations.On("MarkCancelled", ctx, int32(7)).Return(nil)
		store.equipment.On("ReleaseByReservation", ctx, int32(7)).Return(nil)
		store.usage.On("CloseByReservation", ctx, int32(7)).Return(nil)

		err := svc.Cancel(ctx, 7)
		assert.NoError(t, err)
		store.equipment.AssertCalled(t, "ReleaseByReservation", ctx, int32(7))
		store.usage.AssertCalled(t, "CloseByReservation", ctx, int32(7))
	})

	t.Run("Already cancelled", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.reservations.On("GetByID", ctx, int32(7)).
			Return(&domain.Reservation{ID: 7, Status: domain.ReservationStatusCancelled}, nil)

		err := svc.Cancel(ctx, 7)
		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
		store.reservations.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.reservations.On("GetByID", ctx, int32(99)).Return(nil, sql.ErrNoRows)

		err := svc.Cancel(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestReservationService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Not found", func(t *testing.T) {
		store := newMockStore()
		svc := NewReservationService(store, nil)

		store.reservations.On("UpdateStatus", ctx, int32(5), domain.ReservationStatusConfirmed).
			Return(nil, sql.ErrNoRows)

		_, err := svc.UpdateStatus(ctx, 5, domain.ReservationStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Confirmation triggers notification", func(t *testing.T) {
		store := newMockStore()
		email := new(MockEmailService)
		notifier := NewNotificationService(store, email, "example.com")
		svc := NewReservationService(store, notifier)

		confirmed := &domain.Reservation{ID: 5, UserAlias: "jdoe", PickupSite: "HND10",
			StartDate: "2025-07-01", EndDate: "2025-07-02", Status: domain.ReservationStatusConfirmed}
		store.reservations.On("UpdateStatus", ctx, int32(5), domain.ReservationStatusConfirmed).
			Return(confirmed, nil)
		store.managers.On("ListBySite", ctx, "HND10", true).Return([]domain.SiteManager{}, nil)
		store.logs.On("Create", ctx, mock.AnythingOfType("*domain.NotificationLog")).Return(nil)
		store.logs.On("UpdateStatus", ctx, mock.Anything, domain.NotificationStatusSent, mock.Anything).Return(nil)
		email.On("Send", ctx, "jdoe@example.com", mock.Anything, mock.Anything).Return(nil)

		res, err := svc.UpdateStatus(ctx, 5, domain.ReservationStatusConfirmed)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
		email.AssertCalled(t, "Send", ctx, "jdoe@example.com", mock.Anything, mock.Anything)
	})
}
