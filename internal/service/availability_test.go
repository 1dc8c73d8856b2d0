package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"loaner-backend/internal/domain"
)

func TestAvailabilityService_AvailableQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Subtracts overlapping reservations", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeAmazonPC, AvailableQuantity: 5}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-06-03", "2025-06-04").
			Return(int32(3), nil)

		free, err := svc.AvailableQuantity(ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-06-03", "2025-06-04")
		assert.NoError(t, err)
		assert.Equal(t, int32(2), free)
	})

	t.Run("Full baseline when nothing overlaps", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeAmazonPC, AvailableQuantity: 5}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-06-06", "2025-06-09").
			Return(int32(0), nil)

		free, err := svc.AvailableQuantity(ctx, "HND10", domain.EquipmentTypeAmazonPC, "2025-06-06", "2025-06-09")
		assert.NoError(t, err)
		assert.Equal(t, int32(5), free)
	})

	t.Run("Missing pool row counts as zero", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("Get", ctx, "HND99", domain.EquipmentTypeMonitor).
			Return(nil, sql.ErrNoRows)

		free, err := svc.AvailableQuantity(ctx, "HND99", domain.EquipmentTypeMonitor, "2025-06-01", "2025-06-02")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), free)
	})

	t.Run("Never negative", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("Get", ctx, "HND17", domain.EquipmentTypeMonitor).
			Return(&domain.CapacityPool{Site: "HND17", EquipmentType: domain.EquipmentTypeMonitor, AvailableQuantity: 2}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND17", domain.EquipmentTypeMonitor, "2025-06-01", "2025-06-02").
			Return(int32(7), nil)

		free, err := svc.AvailableQuantity(ctx, "HND17", domain.EquipmentTypeMonitor, "2025-06-01", "2025-06-02")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), free)
	})
}

func TestAvailabilityService_SuggestAlternatives(t *testing.T) {
	ctx := context.Background()
	eqType := domain.EquipmentTypeAmazonPC

	t.Run("Other sites and shifted windows", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("ListSites", ctx).Return([]string{"HND10", "HND17", "HND21"}, nil)

		// HND17 can take the same window, HND21 cannot.
		store.inventory.On("Get", ctx, "HND17", eqType).
			Return(&domain.CapacityPool{Site: "HND17", EquipmentType: eqType, AvailableQuantity: 5}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND17", eqType, "2025-06-10", "2025-06-12").
			Return(int32(0), nil)
		store.inventory.On("Get", ctx, "HND21", eqType).Return(nil, sql.ErrNoRows)

		// At the original site, one day earlier is full, two days earlier
		// works; one day later is full, two days later works.
		store.inventory.On("Get", ctx, "HND10", eqType).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: eqType, AvailableQuantity: 5}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", eqType, "2025-06-09", "2025-06-11").
			Return(int32(5), nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", eqType, "2025-06-08", "2025-06-10").
			Return(int32(3), nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", eqType, "2025-06-11", "2025-06-13").
			Return(int32(4), nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", eqType, "2025-06-12", "2025-06-14").
			Return(int32(0), nil)

		alternatives, err := svc.SuggestAlternatives(ctx, "HND10", eqType, 2, "2025-06-10", "2025-06-12")
		assert.NoError(t, err)
		assert.Len(t, alternatives, 3)

		assert.Equal(t, domain.AlternativeKindSite, alternatives[0].Kind)
		assert.Equal(t, "HND17", alternatives[0].Site)
		assert.Equal(t, int32(5), alternatives[0].AvailableQuantity)

		assert.Equal(t, domain.AlternativeKindDate, alternatives[1].Kind)
		assert.Equal(t, -2, alternatives[1].DaysShift)
		assert.Equal(t, "2025-06-08", alternatives[1].StartDate)
		assert.Equal(t, "2025-06-10", alternatives[1].EndDate)

		assert.Equal(t, domain.AlternativeKindDate, alternatives[2].Kind)
		assert.Equal(t, 2, alternatives[2].DaysShift)
		assert.Equal(t, "2025-06-12", alternatives[2].StartDate)
	})

	t.Run("No alternatives when everything is full", func(t *testing.T) {
		store := newMockStore()
		svc := NewAvailabilityService(store)

		store.inventory.On("ListSites", ctx).Return([]string{"HND10"}, nil)
		store.inventory.On("Get", ctx, "HND10", eqType).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: eqType, AvailableQuantity: 0}, nil)
		store.inventory.On("OverlappingReservedQuantity", ctx, "HND10", eqType,
			mock.Anything, mock.Anything).Return(int32(0), nil)

		alternatives, err := svc.SuggestAlternatives(ctx, "HND10", eqType, 1, "2025-06-10", "2025-06-12")
		assert.NoError(t, err)
		assert.Empty(t, alternatives)
	})
}
