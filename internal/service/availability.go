package service

import (
	"context"
	"database/sql"
	"errors"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

type availabilityService struct {
	store repository.Store
}

func NewAvailabilityService(store repository.Store) AvailabilityService {
	return &availabilityService{store: store}
}

// availableQuantity is the shared calculation: stored baseline minus the
// line-item sum of overlapping reservations that are neither cancelled nor
// returned, floored at zero. It holds no lock; callers that need
// check-then-act consistency run it through transaction-bound repositories
// under the (site, type) advisory lock.
func availableQuantity(ctx context.Context, repos repository.Repositories, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error) {
	pool, err := repos.Inventory().Get(ctx, site, equipmentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	reserved, err := repos.Inventory().OverlappingReservedQuantity(ctx, site, equipmentType, startDate, endDate)
	if err != nil {
		return 0, err
	}

	free := pool.AvailableQuantity - reserved
	if free < 0 {
		free = 0
	}
	return free, nil
}

func (s *availabilityService) AvailableQuantity(ctx context.Context, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error) {
	return availableQuantity(ctx, s.store, site, equipmentType, startDate, endDate)
}

// SuggestAlternatives searches other sites for the same window, then
// shifted windows at the original site: earlier by 1..7 days and later by
// 1..7 days, keeping the first feasible shift in each direction. Site
// alternatives come first; there is no ranking across kinds.
func (s *availabilityService) SuggestAlternatives(ctx context.Context, site string, equipmentType domain.EquipmentType, quantity int32, startDate, endDate string) ([]domain.Alternative, error) {
	var alternatives []domain.Alternative

	sites, err := s.store.Inventory().ListSites(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range sites {
		if candidate == site {
			continue
		}
		free, err := availableQuantity(ctx, s.store, candidate, equipmentType, startDate, endDate)
		if err != nil {
			return nil, err
		}
		if free >= quantity {
			alternatives = append(alternatives, domain.Alternative{
				Kind:              domain.AlternativeKindSite,
				Site:              candidate,
				EquipmentType:     equipmentType,
				AvailableQuantity: free,
				StartDate:         startDate,
				EndDate:           endDate,
			})
		}
	}

	for _, direction := range []int{-1, 1} {
		for days := 1; days <= 7; days++ {
			shift := direction * days
			shiftedStart, err := domain.ShiftDate(startDate, shift)
			if err != nil {
				return nil, err
			}
			shiftedEnd, err := domain.ShiftDate(endDate, shift)
			if err != nil {
				return nil, err
			}
			free, err := availableQuantity(ctx, s.store, site, equipmentType, shiftedStart, shiftedEnd)
			if err != nil {
				return nil, err
			}
			if free >= quantity {
				alternatives = append(alternatives, domain.Alternative{
					Kind:              domain.AlternativeKindDate,
					Site:              site,
					EquipmentType:     equipmentType,
					AvailableQuantity: free,
					StartDate:         shiftedStart,
					EndDate:           shiftedEnd,
					DaysShift:         shift,
				})
				break
			}
		}
	}

	return alternatives, nil
}
