package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/logger"
	"loaner-backend/internal/repository"
)

type reservationService struct {
	store    repository.Store
	notifier NotificationService
}

// NewReservationService builds the booking engine. notifier may be nil;
// notification failures never affect reservation outcomes either way.
func NewReservationService(store repository.Store, notifier NotificationService) ReservationService {
	return &reservationService{store: store, notifier: notifier}
}

func validateBooking(r *domain.Reservation) error {
	if r.UserAlias == "" || r.PickupSite == "" {
		return fmt.Errorf("user alias and pickup site are required: %w", domain.ErrInvalidInput)
	}
	start, err := time.Parse(domain.DateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", r.StartDate, domain.ErrInvalidInput)
	}
	end, err := time.Parse(domain.DateLayout, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", r.EndDate, domain.ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("end date before start date: %w", domain.ErrInvalidInput)
	}
	if len(r.Equipment) == 0 {
		return fmt.Errorf("at least one line item is required: %w", domain.ErrInvalidInput)
	}
	for _, item := range r.Equipment {
		if item.Quantity <= 0 {
			return fmt.Errorf("line item quantity must be positive for %s: %w", item.EquipmentType, domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *reservationService) Book(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	if err := validateBooking(reservation); err != nil {
		return nil, err
	}

	// Deterministic lock order across line items keeps concurrent
	// multi-type bookings deadlock-free.
	items := reservation.Equipment
	sort.Slice(items, func(i, j int) bool { return items[i].EquipmentType < items[j].EquipmentType })

	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		for _, item := range items {
			if err := repos.Inventory().AcquireSiteTypeLock(ctx, reservation.PickupSite, item.EquipmentType); err != nil {
				return err
			}
		}
		// Re-check under the lock: the pre-flight check a caller may have
		// done is advisory only.
		for _, item := range items {
			free, err := availableQuantity(ctx, repos, reservation.PickupSite, item.EquipmentType, reservation.StartDate, reservation.EndDate)
			if err != nil {
				return err
			}
			if free < item.Quantity {
				return fmt.Errorf("%s at %s: requested %d, %d free: %w",
					item.EquipmentType, reservation.PickupSite, item.Quantity, free, domain.ErrInsufficientCapacity)
			}
		}
		return repos.Reservations().Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Reservation booked", "reservation_id", reservation.ID,
		"site", reservation.PickupSite, "user", reservation.UserAlias,
		"start", reservation.StartDate, "end", reservation.EndDate)
	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, id int32) error {
	var cancelled *domain.Reservation
	err := s.store.InTx(ctx, func(repos repository.Repositories) error {
		res, err := repos.Reservations().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
			}
			return err
		}
		if res.Status == domain.ReservationStatusCancelled {
			return fmt.Errorf("reservation %d: %w", id, domain.ErrAlreadyCancelled)
		}
		if err := repos.Reservations().MarkCancelled(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("reservation %d: %w", id, domain.ErrAlreadyCancelled)
			}
			return err
		}
		// Free any units that were handed out under this reservation and
		// close their usage records. The pool baseline is not adjusted:
		// the availability sum stops counting this reservation the moment
		// its status is cancelled.
		if err := repos.Equipment().ReleaseByReservation(ctx, id); err != nil {
			return err
		}
		if err := repos.UsageHistory().CloseByReservation(ctx, id); err != nil {
			return err
		}
		res.Status = domain.ReservationStatusCancelled
		cancelled = res
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Reservation cancelled", "reservation_id", id)
	if s.notifier != nil {
		if err := s.notifier.NotifyReservationCancelled(ctx, cancelled); err != nil {
			logger.Error("Cancellation notification failed", "reservation_id", id, "error", err)
		}
	}
	return nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.store.Reservations().UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	if status == domain.ReservationStatusConfirmed && s.notifier != nil {
		if err := s.notifier.NotifyReservationConfirmed(ctx, res); err != nil {
			logger.Error("Confirmation notification failed", "reservation_id", id, "error", err)
		}
	}
	return res, nil
}

func (s *reservationService) Get(ctx context.Context, id int32) (*domain.Reservation, error) {
	res, err := s.store.Reservations().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return res, nil
}

func (s *reservationService) ListByUser(ctx context.Context, userAlias string) ([]domain.Reservation, error) {
	return s.store.Reservations().ListByUser(ctx, userAlias)
}

func (s *reservationService) ListBySite(ctx context.Context, site, startDate, endDate string) ([]domain.Reservation, error) {
	return s.store.Reservations().ListBySite(ctx, site, startDate, endDate)
}

func (s *reservationService) ListOverlapping(ctx context.Context, startDate, endDate string) ([]domain.Reservation, error) {
	return s.store.Reservations().ListOverlapping(ctx, startDate, endDate)
}

func (s *reservationService) ListOverdue(ctx context.Context) ([]domain.Reservation, error) {
	today := time.Now().UTC().Format(domain.DateLayout)
	return s.store.Reservations().ListOverdue(ctx, today)
}

func (s *reservationService) ListPendingSetup(ctx context.Context, site string) ([]domain.Reservation, error) {
	today := time.Now().UTC().Format(domain.DateLayout)
	return s.store.Reservations().ListPendingSetup(ctx, site, today)
}
