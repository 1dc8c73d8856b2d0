package postgres

import (
	"context"
	"database/sql"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

const notificationColumns = `id, reservation_id, notification_type, recipient, message, status, sent_at, created_at`

type notificationLogRepository struct {
	db DBTX
}

func NewNotificationLogRepository(db DBTX) repository.NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func scanNotification(row unitScanner) (*domain.NotificationLog, error) {
	var (
		n      domain.NotificationLog
		sentAt sql.NullTime
	)
	err := row.Scan(&n.ID, &n.ReservationID, &n.Type, &n.Recipient, &n.Message, &n.Status, &sentAt, &n.CreatedOn)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		n.SentAt = &sentAt.Time
	}
	return &n, nil
}

func (r *notificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	if log.Status == "" {
		log.Status = domain.NotificationStatusPending
	}
	query := `INSERT INTO notification_logs (reservation_id, notification_type, recipient, message, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		log.ReservationID, log.Type, log.Recipient, log.Message, log.Status).Scan(&log.ID, &log.CreatedOn)
}

func (r *notificationLogRepository) UpdateStatus(ctx context.Context, id int32, status domain.NotificationStatus, sentAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notification_logs SET status = $2, sent_at = $3 WHERE id = $1`, id, status, sentAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *notificationLogRepository) ListByReservation(ctx context.Context, reservationID int32) ([]domain.NotificationLog, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_logs
	          WHERE reservation_id = $1 ORDER BY created_at DESC`
	return r.queryLogs(ctx, query, reservationID)
}

func (r *notificationLogRepository) ListFailed(ctx context.Context, limit int32) ([]domain.NotificationLog, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_logs
	          WHERE status = 'failed' ORDER BY created_at DESC LIMIT $1`
	return r.queryLogs(ctx, query, limit)
}

func (r *notificationLogRepository) ListRetryCandidates(ctx context.Context, maxRetries int32) ([]domain.NotificationLog, error) {
	query := `SELECT ` + notificationColumns + ` FROM notification_logs nl
	          WHERE nl.status = 'failed'
	            AND (SELECT COUNT(*) FROM notification_logs nl2
	                 WHERE nl2.reservation_id = nl.reservation_id
	                   AND nl2.notification_type = nl.notification_type
	                   AND nl2.recipient = nl.recipient
	                   AND nl2.status = 'failed') < $1
	          ORDER BY nl.created_at ASC`
	return r.queryLogs(ctx, query, maxRetries)
}

func (r *notificationLogRepository) Stats(ctx context.Context, startDate, endDate string) ([]domain.NotificationStats, error) {
	query := `SELECT notification_type, status, COUNT(*) AS count, DATE(created_at)::text AS date
	          FROM notification_logs`
	args := []any{}
	if startDate != "" && endDate != "" {
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, startDate, endDate)
	}
	query += ` GROUP BY notification_type, status, DATE(created_at)
	           ORDER BY date DESC, notification_type, status`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.NotificationStats
	for rows.Next() {
		var s domain.NotificationStats
		if err := rows.Scan(&s.Type, &s.Status, &s.Count, &s.Date); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *notificationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notification_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationLogRepository) queryLogs(ctx context.Context, query string, args ...any) ([]domain.NotificationLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.NotificationLog
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *n)
	}
	return logs, rows.Err()
}
