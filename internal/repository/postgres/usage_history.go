package postgres

import (
	"context"
	"database/sql"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

type usageHistoryRepository struct {
	db DBTX
}

func NewUsageHistoryRepository(db DBTX) repository.UsageHistoryRepository {
	return &usageHistoryRepository{db: db}
}

func (r *usageHistoryRepository) Open(ctx context.Context, equipmentID, reservationID int32, userAlias string) error {
	query := `INSERT INTO equipment_usage_history (equipment_id, reservation_id, user_alias, start_date, status)
	          VALUES ($1, $2, $3, NOW(), 'active')`
	_, err := r.db.ExecContext(ctx, query, equipmentID, reservationID, userAlias)
	return err
}

func (r *usageHistoryRepository) CloseByEquipment(ctx context.Context, equipmentID int32) error {
	query := `UPDATE equipment_usage_history SET end_date = NOW(), status = 'returned'
	          WHERE equipment_id = $1 AND status = 'active'`
	_, err := r.db.ExecContext(ctx, query, equipmentID)
	return err
}

func (r *usageHistoryRepository) CloseByReservation(ctx context.Context, reservationID int32) error {
	query := `UPDATE equipment_usage_history SET end_date = NOW(), status = 'returned'
	          WHERE reservation_id = $1 AND end_date IS NULL`
	_, err := r.db.ExecContext(ctx, query, reservationID)
	return err
}

func (r *usageHistoryRepository) ListByEquipment(ctx context.Context, equipmentID int32) ([]domain.UsageRecord, error) {
	query := `SELECT id, equipment_id, reservation_id, user_alias, start_date, end_date, status
	          FROM equipment_usage_history WHERE equipment_id = $1 ORDER BY start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UsageRecord
	for rows.Next() {
		var (
			rec   domain.UsageRecord
			ended sql.NullTime
		)
		err := rows.Scan(&rec.ID, &rec.EquipmentID, &rec.ReservationID, &rec.UserAlias,
			&rec.StartedAt, &ended, &rec.Status)
		if err != nil {
			return nil, err
		}
		if ended.Valid {
			rec.EndedAt = &ended.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *usageHistoryRepository) ListByUser(ctx context.Context, userAlias string) ([]domain.UnitUsage, error) {
	query := `SELECT euh.id, euh.equipment_id, euh.reservation_id, euh.user_alias, euh.start_date, euh.end_date, euh.status,
	                 ei.equipment_code, ei.equipment_type, ei.site
	          FROM equipment_usage_history euh
	          JOIN equipment_items ei ON euh.equipment_id = ei.id
	          WHERE euh.user_alias = $1
	          ORDER BY euh.start_date DESC`
	rows, err := r.db.QueryContext(ctx, query, userAlias)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.UnitUsage
	for rows.Next() {
		var (
			rec   domain.UnitUsage
			ended sql.NullTime
		)
		err := rows.Scan(&rec.ID, &rec.EquipmentID, &rec.ReservationID, &rec.UserAlias,
			&rec.StartedAt, &ended, &rec.Status, &rec.EquipmentCode, &rec.EquipmentType, &rec.Site)
		if err != nil {
			return nil, err
		}
		if ended.Valid {
			rec.EndedAt = &ended.Time
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
