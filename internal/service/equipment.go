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

type equipmentService struct {
	store repository.Store
}

func NewEquipmentService(store repository.Store) EquipmentService {
	return &equipmentService{store: store}
}

func (s *equipmentService) CreateUnit(ctx context.Context, unit *domain.EquipmentUnit) (*domain.EquipmentUnit, error) {
	if _, err := domain.CodePrefix(unit.Type); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	if unit.Site == "" {
		return nil, fmt.Errorf("site is required: %w", domain.ErrInvalidInput)
	}

	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		if unit.Code == "" {
			// Read-max-then-insert is only safe because the advisory lock
			// serializes generation per (site, type).
			if err := repos.Inventory().AcquireSiteTypeLock(ctx, unit.Site, unit.Type); err != nil {
				return err
			}
			code, err := nextCode(ctx, repos, unit.Type)
			if err != nil {
				return err
			}
			unit.Code = code
		}
		return repos.Equipment().Create(ctx, unit)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Equipment unit provisioned", "code", unit.Code, "type", unit.Type, "site", unit.Site)
	return unit, nil
}

// nextCode produces the type prefix plus the next numeric suffix; the first
// unit of a type starts the sequence at 1.
func nextCode(ctx context.Context, repos repository.Repositories, equipmentType domain.EquipmentType) (string, error) {
	prefix, err := domain.CodePrefix(equipmentType)
	if err != nil {
		return "", err
	}
	max, err := repos.Equipment().MaxCodeSuffix(ctx, equipmentType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", prefix, max+1), nil
}

func (s *equipmentService) GetByCode(ctx context.Context, site, code string) (*domain.EquipmentUnit, error) {
	unit, err := s.store.Equipment().GetByCode(ctx, site, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("equipment %s at %s: %w", code, site, domain.ErrNotFound)
		}
		return nil, err
	}
	return unit, nil
}

func (s *equipmentService) List(ctx context.Context, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	return s.store.Equipment().List(ctx, site, status)
}

func (s *equipmentService) ListByType(ctx context.Context, equipmentType domain.EquipmentType, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	if _, err := domain.CodePrefix(equipmentType); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return s.store.Equipment().ListByType(ctx, equipmentType, site, status)
}

func (s *equipmentService) ListInUse(ctx context.Context, site string) ([]domain.InUseUnit, error) {
	return s.store.Equipment().ListInUse(ctx, site)
}

func (s *equipmentService) UpdateDetails(ctx context.Context, unit *domain.EquipmentUnit) (*domain.EquipmentUnit, error) {
	if err := s.store.Equipment().UpdateDetails(ctx, unit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("equipment %d: %w", unit.ID, domain.ErrNotFound)
		}
		return nil, err
	}
	return s.store.Equipment().GetByID(ctx, unit.ID)
}

func (s *equipmentService) SetMaintenance(ctx context.Context, id int32, maintenance bool) (*domain.EquipmentUnit, error) {
	unit, err := s.store.Equipment().SetMaintenance(ctx, id, maintenance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("equipment %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return unit, nil
}

func (s *equipmentService) Assign(ctx context.Context, unitID, reservationID int32, holder string) (*domain.EquipmentUnit, error) {
	var assigned *domain.EquipmentUnit
	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		unit, err := repos.Equipment().MarkInUse(ctx, unitID, reservationID, holder)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Conditional update matched nothing: another caller won
				// the race or the unit is not available.
				return fmt.Errorf("equipment %d: %w", unitID, domain.ErrNotAvailable)
			}
			return err
		}
		if err := repos.UsageHistory().Open(ctx, unitID, reservationID, holder); err != nil {
			return err
		}
		assigned = unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Equipment assigned", "equipment_id", unitID, "reservation_id", reservationID, "holder", holder)
	return assigned, nil
}

func (s *equipmentService) AssignForReservation(ctx context.Context, site string, equipmentType domain.EquipmentType, reservationID int32, holder string) (*domain.EquipmentUnit, error) {
	var assigned *domain.EquipmentUnit
	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		candidates, err := repos.Equipment().FindAvailable(ctx, site, equipmentType, 1)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return fmt.Errorf("no available %s at %s: %w", equipmentType, site, domain.ErrNotAvailable)
		}
		unit, err := repos.Equipment().MarkInUse(ctx, candidates[0].ID, reservationID, holder)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("equipment %d: %w", candidates[0].ID, domain.ErrNotAvailable)
			}
			return err
		}
		if err := repos.UsageHistory().Open(ctx, unit.ID, reservationID, holder); err != nil {
			return err
		}
		assigned = unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Equipment assigned", "equipment_code", assigned.Code, "reservation_id", reservationID, "holder", holder)
	return assigned, nil
}

func (s *equipmentService) Return(ctx context.Context, unitID int32) (*domain.EquipmentUnit, error) {
	var returned *domain.EquipmentUnit
	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		unit, err := repos.Equipment().MarkAvailable(ctx, unitID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("equipment %d is not in use: %w", unitID, domain.ErrInvalidState)
			}
			return err
		}
		if err := repos.UsageHistory().CloseByEquipment(ctx, unitID); err != nil {
			return err
		}
		returned = unit
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Equipment returned", "equipment_id", unitID)
	return returned, nil
}

func (s *equipmentService) UsageHistory(ctx context.Context, unitID int32) ([]domain.UsageRecord, error) {
	return s.store.UsageHistory().ListByEquipment(ctx, unitID)
}

func (s *equipmentService) UserUsageHistory(ctx context.Context, userAlias string) ([]domain.UnitUsage, error) {
	return s.store.UsageHistory().ListByUser(ctx, userAlias)
}
