package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

const equipmentColumns = `id, equipment_code, equipment_type, site, model, serial_number, status, current_user_alias, current_reservation_id, purchase_date, created_at, updated_at`

type equipmentRepository struct {
	db DBTX
}

func NewEquipmentRepository(db DBTX) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

type unitScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row unitScanner) (*domain.EquipmentUnit, error) {
	var (
		u            domain.EquipmentUnit
		holder       sql.NullString
		reservation  sql.NullInt32
		purchaseDate sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(&u.ID, &u.Code, &u.Type, &u.Site, &u.Model, &u.SerialNumber, &u.Status,
		&holder, &reservation, &purchaseDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if holder.Valid {
		u.CurrentHolder = &holder.String
	}
	if reservation.Valid {
		u.CurrentReservationID = &reservation.Int32
	}
	if purchaseDate.Valid {
		d := purchaseDate.Time.Format(domain.DateLayout)
		u.PurchaseDate = &d
	}
	u.CreatedOn = createdAt.Format(time.RFC3339)
	u.UpdatedOn = updatedAt.Format(time.RFC3339)
	return &u, nil
}

func (r *equipmentRepository) Create(ctx context.Context, unit *domain.EquipmentUnit) error {
	query := `INSERT INTO equipment_items (equipment_code, equipment_type, site, model, serial_number, status, purchase_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	status := unit.Status
	if status == "" {
		status = domain.EquipmentStatusAvailable
		unit.Status = status
	}
	var purchaseDate any
	if unit.PurchaseDate != nil {
		purchaseDate = *unit.PurchaseDate
	}
	return r.db.QueryRowContext(ctx, query,
		unit.Code, unit.Type, unit.Site, unit.Model, unit.SerialNumber, status, purchaseDate).Scan(&unit.ID)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.EquipmentUnit, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items WHERE id = $1`
	return scanUnit(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) GetByCode(ctx context.Context, site, code string) (*domain.EquipmentUnit, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items WHERE site = $1 AND equipment_code = $2`
	return scanUnit(r.db.QueryRowContext(ctx, query, site, code))
}

func (r *equipmentRepository) List(ctx context.Context, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items WHERE 1=1`
	args := []any{}
	if site != "" {
		args = append(args, site)
		query += fmt.Sprintf(" AND site = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY site ASC,
		CASE equipment_type WHEN 'amazon_pc' THEN 1 WHEN 'non_amazon_pc' THEN 2 WHEN 'monitor' THEN 3 ELSE 4 END ASC,
		CAST(SUBSTRING(equipment_code FROM '[0-9]+$') AS INTEGER) ASC`
	return r.queryUnits(ctx, query, args...)
}

func (r *equipmentRepository) ListByType(ctx context.Context, equipmentType domain.EquipmentType, site string, status domain.EquipmentStatus) ([]domain.EquipmentUnit, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items WHERE equipment_type = $1`
	args := []any{equipmentType}
	if site != "" {
		args = append(args, site)
		query += fmt.Sprintf(" AND site = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY equipment_code ASC`
	return r.queryUnits(ctx, query, args...)
}

func (r *equipmentRepository) FindAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, limit int32) ([]domain.EquipmentUnit, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment_items
	          WHERE site = $1 AND equipment_type = $2 AND status = 'available'
	          ORDER BY equipment_code ASC LIMIT $3`
	return r.queryUnits(ctx, query, site, equipmentType, limit)
}

func (r *equipmentRepository) queryUnits(ctx context.Context, query string, args ...any) ([]domain.EquipmentUnit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.EquipmentUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

func (r *equipmentRepository) ListInUse(ctx context.Context, site string) ([]domain.InUseUnit, error) {
	query := `SELECT ei.id, ei.equipment_code, ei.equipment_type, ei.site, ei.model, ei.serial_number, ei.status,
	                 ei.current_user_alias, ei.current_reservation_id, ei.purchase_date, ei.created_at, ei.updated_at,
	                 r.user_alias, r.start_date, r.end_date,
	                 CASE WHEN r.end_date < CURRENT_DATE THEN 'overdue' ELSE 'in_use' END AS usage_status
	          FROM equipment_items ei
	          LEFT JOIN reservations r ON ei.current_reservation_id = r.id
	          WHERE ei.status = 'in_use'`
	args := []any{}
	if site != "" {
		args = append(args, site)
		query += fmt.Sprintf(" AND ei.site = $%d", len(args))
	}
	query += ` ORDER BY ei.equipment_code ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.InUseUnit
	for rows.Next() {
		var (
			u            domain.InUseUnit
			holder       sql.NullString
			reservation  sql.NullInt32
			purchaseDate sql.NullTime
			createdAt    time.Time
			updatedAt    time.Time
			alias        sql.NullString
			startDate    sql.NullTime
			endDate      sql.NullTime
		)
		err := rows.Scan(&u.ID, &u.Code, &u.Type, &u.Site, &u.Model, &u.SerialNumber, &u.Status,
			&holder, &reservation, &purchaseDate, &createdAt, &updatedAt,
			&alias, &startDate, &endDate, &u.UsageStatus)
		if err != nil {
			return nil, err
		}
		if holder.Valid {
			u.CurrentHolder = &holder.String
		}
		if reservation.Valid {
			u.CurrentReservationID = &reservation.Int32
		}
		if purchaseDate.Valid {
			d := purchaseDate.Time.Format(domain.DateLayout)
			u.PurchaseDate = &d
		}
		u.CreatedOn = createdAt.Format(time.RFC3339)
		u.UpdatedOn = updatedAt.Format(time.RFC3339)
		u.HolderAlias = alias.String
		if startDate.Valid {
			u.StartDate = startDate.Time.Format(domain.DateLayout)
		}
		if endDate.Valid {
			u.EndDate = endDate.Time.Format(domain.DateLayout)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *equipmentRepository) UpdateDetails(ctx context.Context, unit *domain.EquipmentUnit) error {
	query := `UPDATE equipment_items SET model = $2, serial_number = $3, status = $4, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, unit.ID, unit.Model, unit.SerialNumber, unit.Status)
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

func (r *equipmentRepository) MarkInUse(ctx context.Context, id, reservationID int32, holder string) (*domain.EquipmentUnit, error) {
	query := `UPDATE equipment_items
	          SET status = 'in_use', current_user_alias = $2, current_reservation_id = $3, updated_at = NOW()
	          WHERE id = $1 AND status = 'available'
	          RETURNING ` + equipmentColumns
	return scanUnit(r.db.QueryRowContext(ctx, query, id, holder, reservationID))
}

func (r *equipmentRepository) MarkAvailable(ctx context.Context, id int32) (*domain.EquipmentUnit, error) {
	query := `UPDATE equipment_items
	          SET status = 'available', current_user_alias = NULL, current_reservation_id = NULL, updated_at = NOW()
	          WHERE id = $1 AND status = 'in_use'
	          RETURNING ` + equipmentColumns
	return scanUnit(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) ReleaseByReservation(ctx context.Context, reservationID int32) error {
	query := `UPDATE equipment_items
	          SET status = 'available', current_user_alias = NULL, current_reservation_id = NULL, updated_at = NOW()
	          WHERE id IN (
	              SELECT equipment_id FROM equipment_usage_history
	              WHERE reservation_id = $1 AND end_date IS NULL
	          )`
	_, err := r.db.ExecContext(ctx, query, reservationID)
	return err
}

func (r *equipmentRepository) SetMaintenance(ctx context.Context, id int32, maintenance bool) (*domain.EquipmentUnit, error) {
	status := domain.EquipmentStatusAvailable
	if maintenance {
		status = domain.EquipmentStatusMaintenance
	}
	query := `UPDATE equipment_items SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + equipmentColumns
	return scanUnit(r.db.QueryRowContext(ctx, query, id, status))
}

func (r *equipmentRepository) MaxCodeSuffix(ctx context.Context, equipmentType domain.EquipmentType) (int32, error) {
	query := `SELECT COALESCE(MAX(CAST(SUBSTRING(equipment_code FROM '[0-9]+$') AS INTEGER)), 0)
	          FROM equipment_items WHERE equipment_type = $1`
	var max int32
	if err := r.db.QueryRowContext(ctx, query, equipmentType).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}
