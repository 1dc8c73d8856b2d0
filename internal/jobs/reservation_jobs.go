package jobs

import (
	"context"

	"loaner-backend/internal/logger"
)

// SendOverdueReminders mails a reminder for every reservation whose window
// has passed while the equipment is still out. Overdue is a derived
// condition; this job never writes a status.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.services.Reservation.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue reservations", "error", err)
			return
		}

		for i := range overdue {
			res := &overdue[i]
			if err := jr.services.Notification.NotifyOverdue(ctx, res); err != nil {
				logger.Error("Failed to send overdue reminder", "reservation_id", res.ID, "error", err)
				continue
			}
			logger.Debug("Sent overdue reminder",
				"reservation_id", res.ID,
				"user", res.UserAlias,
				"site", res.PickupSite,
				"end_date", res.EndDate)
		}

		logger.Info("Overdue reminders processed", "count", len(overdue))
	})
}

// RetryFailedNotifications resends failed notifications with retry budget.
func (jr *JobRunner) RetryFailedNotifications() {
	jr.runWithRecovery("RetryFailedNotifications", func() {
		ctx := context.Background()

		maxRetry := int32(jr.config.Inventory.NotificationMaxRetry)
		sent, err := jr.services.Notification.RetryFailed(ctx, maxRetry)
		if err != nil {
			logger.Error("Failed to retry notifications", "error", err)
			return
		}
		logger.Info("Retried failed notifications", "sent", sent)
	})
}

// CleanupNotificationLogs prunes audit rows past the retention window.
func (jr *JobRunner) CleanupNotificationLogs() {
	jr.runWithRecovery("CleanupNotificationLogs", func() {
		ctx := context.Background()

		deleted, err := jr.services.Notification.CleanupOldLogs(ctx, jr.config.Inventory.LogRetentionDays)
		if err != nil {
			logger.Error("Failed to clean up notification logs", "error", err)
			return
		}
		logger.Info("Cleaned up notification logs", "deleted", deleted, "retention_days", jr.config.Inventory.LogRetentionDays)
	})
}

// ReportLowStock logs pools at or below the configured threshold.
func (jr *JobRunner) ReportLowStock() {
	jr.runWithRecovery("ReportLowStock", func() {
		ctx := context.Background()

		pools, err := jr.services.Inventory.LowStock(ctx, int32(jr.config.Inventory.LowStockThreshold))
		if err != nil {
			logger.Error("Failed to check low stock", "error", err)
			return
		}
		for _, p := range pools {
			logger.Warn("Low stock",
				"site", p.Site,
				"type", p.EquipmentType,
				"available", p.AvailableQuantity,
				"total", p.TotalQuantity)
		}
	})
}
