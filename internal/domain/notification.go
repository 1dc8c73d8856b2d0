package domain

import "time"

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

type NotificationType string

const (
	NotificationTypeReservationConfirmed NotificationType = "reservation_confirmed"
	NotificationTypeReservationCancelled NotificationType = "reservation_cancelled"
	NotificationTypeOverdueReminder      NotificationType = "overdue_reminder"
)

// NotificationLog is the audit trail of outbound notifications.
type NotificationLog struct {
	ID            int32              `json:"id"`
	ReservationID int32              `json:"reservation_id"`
	Type          NotificationType   `json:"notification_type"`
	Recipient     string             `json:"recipient"`
	Message       string             `json:"message"`
	Status        NotificationStatus `json:"status"`
	SentAt        *time.Time         `json:"sent_at,omitempty"`
	CreatedOn     time.Time          `json:"created_at"`
}

type NotificationStats struct {
	Type   NotificationType   `json:"notification_type"`
	Status NotificationStatus `json:"status"`
	Count  int32              `json:"count"`
	Date   string             `json:"date"`
}
