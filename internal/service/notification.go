package service

import (
	"context"
	"fmt"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/logger"
	"loaner-backend/internal/repository"
)

type notificationService struct {
	store       repository.Store
	email       EmailService
	aliasDomain string
}

// NewNotificationService builds the notification dispatcher. aliasDomain is
// appended to user aliases to form recipient addresses.
func NewNotificationService(store repository.Store, email EmailService, aliasDomain string) NotificationService {
	return &notificationService{store: store, email: email, aliasDomain: aliasDomain}
}

func (s *notificationService) addressFor(alias string) string {
	return alias + "@" + s.aliasDomain
}

// recipients is the requester plus every active manager of the pickup site.
func (s *notificationService) recipients(ctx context.Context, res *domain.Reservation) []string {
	addrs := []string{s.addressFor(res.UserAlias)}
	managers, err := s.store.SiteManagers().ListBySite(ctx, res.PickupSite, true)
	if err != nil {
		logger.Error("Failed to load site managers for notification", "site", res.PickupSite, "error", err)
		return addrs
	}
	for _, m := range managers {
		addrs = append(addrs, m.Email)
	}
	return addrs
}

func equipmentSummary(res *domain.Reservation) string {
	summary := ""
	for i, item := range res.Equipment {
		if i > 0 {
			summary += ", "
		}
		summary += fmt.Sprintf("%s x%d", item.EquipmentType, item.Quantity)
	}
	return summary
}

// dispatch writes one audit row per recipient, attempts the send, then
// records the outcome. A failed send marks the row failed and moves on; it
// never bubbles an error that would fail the triggering operation.
func (s *notificationService) dispatch(ctx context.Context, res *domain.Reservation, notifType domain.NotificationType, subject, message string) error {
	for _, recipient := range s.recipients(ctx, res) {
		entry := &domain.NotificationLog{
			ReservationID: res.ID,
			Type:          notifType,
			Recipient:     recipient,
			Message:       message,
			Status:        domain.NotificationStatusPending,
		}
		if err := s.store.NotificationLogs().Create(ctx, entry); err != nil {
			logger.Error("Failed to record notification", "reservation_id", res.ID, "recipient", recipient, "error", err)
			continue
		}

		status := domain.NotificationStatusSent
		if err := s.email.Send(ctx, recipient, subject, message); err != nil {
			logger.Error("Notification send failed", "reservation_id", res.ID, "recipient", recipient, "error", err)
			status = domain.NotificationStatusFailed
		}
		if err := s.store.NotificationLogs().UpdateStatus(ctx, entry.ID, status, time.Now()); err != nil {
			logger.Error("Failed to update notification status", "notification_id", entry.ID, "error", err)
		}
	}
	return nil
}

func (s *notificationService) NotifyReservationConfirmed(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation #%d confirmed - pickup at %s", res.ID, res.PickupSite)
	message := fmt.Sprintf("Reservation #%d for %s is confirmed.\nEquipment: %s\nPickup site: %s\nPeriod: %s to %s",
		res.ID, res.UserAlias, equipmentSummary(res), res.PickupSite, res.StartDate, res.EndDate)
	return s.dispatch(ctx, res, domain.NotificationTypeReservationConfirmed, subject, message)
}

func (s *notificationService) NotifyReservationCancelled(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation #%d cancelled", res.ID)
	message := fmt.Sprintf("Reservation #%d for %s at %s (%s to %s) has been cancelled.",
		res.ID, res.UserAlias, res.PickupSite, res.StartDate, res.EndDate)
	return s.dispatch(ctx, res, domain.NotificationTypeReservationCancelled, subject, message)
}

func (s *notificationService) NotifyOverdue(ctx context.Context, res *domain.Reservation) error {
	subject := fmt.Sprintf("Equipment return overdue - reservation #%d", res.ID)
	message := fmt.Sprintf("Reservation #%d for %s at %s was due back on %s. Please return the equipment: %s",
		res.ID, res.UserAlias, res.PickupSite, res.EndDate, equipmentSummary(res))
	return s.dispatch(ctx, res, domain.NotificationTypeOverdueReminder, subject, message)
}

func (s *notificationService) ListByReservation(ctx context.Context, reservationID int32) ([]domain.NotificationLog, error) {
	return s.store.NotificationLogs().ListByReservation(ctx, reservationID)
}

func (s *notificationService) Stats(ctx context.Context, startDate, endDate string) ([]domain.NotificationStats, error) {
	return s.store.NotificationLogs().Stats(ctx, startDate, endDate)
}

func (s *notificationService) ListFailed(ctx context.Context, limit int32) ([]domain.NotificationLog, error) {
	return s.store.NotificationLogs().ListFailed(ctx, limit)
}

// RetryFailed resends failed notifications that still have retry budget and
// returns how many went through.
func (s *notificationService) RetryFailed(ctx context.Context, maxRetries int32) (int, error) {
	candidates, err := s.store.NotificationLogs().ListRetryCandidates(ctx, maxRetries)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range candidates {
		subject := fmt.Sprintf("Reservation #%d notification", n.ReservationID)
		if err := s.email.Send(ctx, n.Recipient, subject, n.Message); err != nil {
			logger.Warn("Notification retry failed", "notification_id", n.ID, "recipient", n.Recipient, "error", err)
			continue
		}
		if err := s.store.NotificationLogs().UpdateStatus(ctx, n.ID, domain.NotificationStatusSent, time.Now()); err != nil {
			logger.Error("Failed to update retried notification", "notification_id", n.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *notificationService) CleanupOldLogs(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)
	return s.store.NotificationLogs().DeleteOlderThan(ctx, cutoff)
}
