package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/logger"
	"loaner-backend/internal/repository"
)

type inventoryService struct {
	store repository.Store
}

func NewInventoryService(store repository.Store) InventoryService {
	return &inventoryService{store: store}
}

func (s *inventoryService) Get(ctx context.Context, site string, equipmentType domain.EquipmentType) (*domain.CapacityPool, error) {
	pool, err := s.store.Inventory().Get(ctx, site, equipmentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pool %s/%s: %w", site, equipmentType, domain.ErrNotFound)
		}
		return nil, err
	}
	return pool, nil
}

func (s *inventoryService) ListBySite(ctx context.Context, site string) ([]domain.CapacityPool, error) {
	return s.store.Inventory().ListBySite(ctx, site)
}

func (s *inventoryService) ListAll(ctx context.Context) ([]domain.CapacityPool, error) {
	return s.store.Inventory().ListAll(ctx)
}

func (s *inventoryService) SetQuantities(ctx context.Context, site string, equipmentType domain.EquipmentType, total, available, maintenance int32) (*domain.CapacityPool, error) {
	if total < 0 || available < 0 || maintenance < 0 {
		return nil, fmt.Errorf("pool quantities must be non-negative: %w", domain.ErrInvalidInput)
	}
	pool, err := s.store.Inventory().SetQuantities(ctx, site, equipmentType, total, available, maintenance)
	if err != nil {
		return nil, err
	}
	logger.Info("Pool quantities set", "site", site, "type", equipmentType,
		"total", total, "available", available, "maintenance", maintenance)
	return pool, nil
}

func (s *inventoryService) AdjustAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, delta int32) (*domain.CapacityPool, error) {
	pool, err := s.store.Inventory().AdjustAvailable(ctx, site, equipmentType, delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the pool row is missing or the guard rejected an
			// underflow; distinguish for the caller.
			if _, getErr := s.store.Inventory().Get(ctx, site, equipmentType); getErr != nil {
				if errors.Is(getErr, sql.ErrNoRows) {
					return nil, fmt.Errorf("pool %s/%s: %w", site, equipmentType, domain.ErrNotFound)
				}
				return nil, getErr
			}
			return nil, fmt.Errorf("pool %s/%s: adjust by %d: %w", site, equipmentType, delta, domain.ErrInsufficientCapacity)
		}
		return nil, err
	}
	return pool, nil
}

func (s *inventoryService) LowStock(ctx context.Context, threshold int32) ([]domain.CapacityPool, error) {
	return s.store.Inventory().LowStock(ctx, threshold)
}

func (s *inventoryService) Utilization(ctx context.Context, site, startDate, endDate string) ([]domain.PoolUtilization, error) {
	return s.store.Inventory().Utilization(ctx, site, startDate, endDate)
}
