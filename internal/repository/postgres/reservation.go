package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"

	"github.com/lib/pq"
)

const reservationColumns = `id, user_alias, pickup_site, start_date, end_date, status, created_at, updated_at`

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func scanReservation(row unitScanner) (*domain.Reservation, error) {
	var r domain.Reservation
	var startDate, endDate, createdAt, updatedAt time.Time
	err := row.Scan(&r.ID, &r.UserAlias, &r.PickupSite, &startDate, &endDate, &r.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.StartDate = startDate.Format(domain.DateLayout)
	r.EndDate = endDate.Format(domain.DateLayout)
	r.CreatedOn = createdAt.Format(time.RFC3339)
	r.UpdatedOn = updatedAt.Format(time.RFC3339)
	return &r, nil
}

// Create inserts the header and its line items. Run inside a store
// transaction; a failed item insert must roll the header back too.
func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	status := res.Status
	if status == "" {
		status = domain.ReservationStatusPending
		res.Status = status
	}
	query := `INSERT INTO reservations (user_alias, pickup_site, start_date, end_date, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	var createdAt, updatedAt time.Time
	err := r.db.QueryRowContext(ctx, query,
		res.UserAlias, res.PickupSite, res.StartDate, res.EndDate, status).
		Scan(&res.ID, &createdAt, &updatedAt)
	if err != nil {
		return err
	}
	res.CreatedOn = createdAt.Format(time.RFC3339)
	res.UpdatedOn = updatedAt.Format(time.RFC3339)

	for i := range res.Equipment {
		item := &res.Equipment[i]
		item.ReservationID = res.ID
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO reservation_equipment (reservation_id, equipment_type, quantity) VALUES ($1, $2, $3)`,
			res.ID, item.EquipmentType, item.Quantity)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*domain.Reservation{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userAlias string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_alias = $1 ORDER BY created_at DESC`
	return r.queryWithItems(ctx, query, userAlias)
}

func (r *reservationRepository) ListBySite(ctx context.Context, site, startDate, endDate string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE pickup_site = $1`
	args := []any{site}
	if startDate != "" {
		args = append(args, startDate)
		query += fmt.Sprintf(" AND start_date >= $%d", len(args))
	}
	if endDate != "" {
		args = append(args, endDate)
		query += fmt.Sprintf(" AND end_date <= $%d", len(args))
	}
	query += ` ORDER BY start_date ASC`
	return r.queryWithItems(ctx, query, args...)
}

func (r *reservationRepository) ListOverlapping(ctx context.Context, startDate, endDate string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE (start_date <= $2 AND end_date >= $1)
	            AND status NOT IN ('cancelled')
	          ORDER BY start_date ASC`
	return r.queryWithItems(ctx, query, startDate, endDate)
}

func (r *reservationRepository) ListOverdue(ctx context.Context, today string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE end_date < $1 AND status IN ('confirmed', 'setup_complete')
	          ORDER BY end_date ASC`
	return r.queryWithItems(ctx, query, today)
}

func (r *reservationRepository) ListPendingSetup(ctx context.Context, site, today string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = 'confirmed' AND start_date <= $1`
	args := []any{today}
	if site != "" {
		args = append(args, site)
		query += fmt.Sprintf(" AND pickup_site = $%d", len(args))
	}
	query += ` ORDER BY start_date ASC`
	return r.queryWithItems(ctx, query, args...)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	query := `UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + reservationColumns
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*domain.Reservation{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) MarkCancelled(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = 'cancelled', updated_at = NOW() WHERE id = $1 AND status != 'cancelled'`, id)
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

func (r *reservationRepository) queryWithItems(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Reservation, len(reservations))
	for i := range reservations {
		refs[i] = &reservations[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) loadItems(ctx context.Context, reservations []*domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	ids := make([]int32, len(reservations))
	byID := make(map[int32]*domain.Reservation, len(reservations))
	for i, res := range reservations {
		ids[i] = res.ID
		byID[res.ID] = res
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT reservation_id, equipment_type, quantity FROM reservation_equipment
		 WHERE reservation_id = ANY($1) ORDER BY reservation_id, equipment_type`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ReservationID, &item.EquipmentType, &item.Quantity); err != nil {
			return err
		}
		if res, ok := byID[item.ReservationID]; ok {
			res.Equipment = append(res.Equipment, item)
		}
	}
	return rows.Err()
}
