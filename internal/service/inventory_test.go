package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"loaner-backend/internal/domain"
)

func TestInventoryService_AdjustAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		store.inventory.On("AdjustAvailable", ctx, "HND10", domain.EquipmentTypeAmazonPC, int32(-2)).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeAmazonPC, AvailableQuantity: 18}, nil)

		pool, err := svc.AdjustAvailable(ctx, "HND10", domain.EquipmentTypeAmazonPC, -2)
		assert.NoError(t, err)
		assert.Equal(t, int32(18), pool.AvailableQuantity)
	})

	t.Run("Underflow rejected", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		store.inventory.On("AdjustAvailable", ctx, "HND10", domain.EquipmentTypeAmazonPC, int32(-50)).
			Return(nil, sql.ErrNoRows)
		store.inventory.On("Get", ctx, "HND10", domain.EquipmentTypeAmazonPC).
			Return(&domain.CapacityPool{Site: "HND10", EquipmentType: domain.EquipmentTypeAmazonPC, AvailableQuantity: 18}, nil)

		_, err := svc.AdjustAvailable(ctx, "HND10", domain.EquipmentTypeAmazonPC, -50)
		assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
	})

	t.Run("Missing pool", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		store.inventory.On("AdjustAvailable", ctx, "HND99", domain.EquipmentTypeMonitor, int32(1)).
			Return(nil, sql.ErrNoRows)
		store.inventory.On("Get", ctx, "HND99", domain.EquipmentTypeMonitor).
			Return(nil, sql.ErrNoRows)

		_, err := svc.AdjustAvailable(ctx, "HND99", domain.EquipmentTypeMonitor, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInventoryService_SetQuantities(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		store.inventory.On("SetQuantities", ctx, "HND21", domain.EquipmentTypeMonitor, int32(10), int32(8), int32(2)).
			Return(&domain.CapacityPool{Site: "HND21", EquipmentType: domain.EquipmentTypeMonitor,
				TotalQuantity: 10, AvailableQuantity: 8, MaintenanceQuantity: 2}, nil)

		pool, err := svc.SetQuantities(ctx, "HND21", domain.EquipmentTypeMonitor, 10, 8, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(10), pool.TotalQuantity)
	})

	t.Run("Negative quantities rejected", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		_, err := svc.SetQuantities(ctx, "HND21", domain.EquipmentTypeMonitor, -1, 0, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Not found", func(t *testing.T) {
		store := newMockStore()
		svc := NewInventoryService(store)

		store.inventory.On("Get", ctx, "HND99", domain.EquipmentTypeAmazonPC).Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, "HND99", domain.EquipmentTypeAmazonPC)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
