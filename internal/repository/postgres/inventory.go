package postgres

import (
	"context"
	"fmt"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

const inventoryColumns = `id, site, equipment_type, total_quantity, available_quantity, maintenance_quantity, updated_at`

type inventoryRepository struct {
	db DBTX
}

func NewInventoryRepository(db DBTX) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func scanPool(row unitScanner) (*domain.CapacityPool, error) {
	var (
		p         domain.CapacityPool
		updatedAt time.Time
	)
	err := row.Scan(&p.ID, &p.Site, &p.EquipmentType, &p.TotalQuantity,
		&p.AvailableQuantity, &p.MaintenanceQuantity, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedOn = updatedAt.Format(time.RFC3339)
	return &p, nil
}

func (r *inventoryRepository) Get(ctx context.Context, site string, equipmentType domain.EquipmentType) (*domain.CapacityPool, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE site = $1 AND equipment_type = $2`
	return scanPool(r.db.QueryRowContext(ctx, query, site, equipmentType))
}

func (r *inventoryRepository) ListBySite(ctx context.Context, site string) ([]domain.CapacityPool, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE site = $1 ORDER BY equipment_type`
	return r.queryPools(ctx, query, site)
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]domain.CapacityPool, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY site, equipment_type`
	return r.queryPools(ctx, query)
}

func (r *inventoryRepository) ListSites(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT site FROM inventory ORDER BY site`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (r *inventoryRepository) SetQuantities(ctx context.Context, site string, equipmentType domain.EquipmentType, total, available, maintenance int32) (*domain.CapacityPool, error) {
	query := `INSERT INTO inventory (site, equipment_type, total_quantity, available_quantity, maintenance_quantity)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (site, equipment_type) DO UPDATE
	          SET total_quantity = EXCLUDED.total_quantity,
	              available_quantity = EXCLUDED.available_quantity,
	              maintenance_quantity = EXCLUDED.maintenance_quantity,
	              updated_at = NOW()
	          RETURNING ` + inventoryColumns
	return scanPool(r.db.QueryRowContext(ctx, query, site, equipmentType, total, available, maintenance))
}

func (r *inventoryRepository) AdjustAvailable(ctx context.Context, site string, equipmentType domain.EquipmentType, delta int32) (*domain.CapacityPool, error) {
	// The guard makes this a single atomic compare-and-adjust; no row back
	// means the baseline would have gone negative.
	query := `UPDATE inventory
	          SET available_quantity = available_quantity + $3, updated_at = NOW()
	          WHERE site = $1 AND equipment_type = $2 AND available_quantity + $3 >= 0
	          RETURNING ` + inventoryColumns
	return scanPool(r.db.QueryRowContext(ctx, query, site, equipmentType, delta))
}

func (r *inventoryRepository) OverlappingReservedQuantity(ctx context.Context, site string, equipmentType domain.EquipmentType, startDate, endDate string) (int32, error) {
	query := `SELECT COALESCE(SUM(re.quantity), 0)
	          FROM reservation_equipment re
	          JOIN reservations r ON re.reservation_id = r.id
	          WHERE r.pickup_site = $1
	            AND re.equipment_type = $2
	            AND r.status NOT IN ('cancelled', 'returned')
	            AND (r.start_date <= $4 AND r.end_date >= $3)`
	var reserved int32
	if err := r.db.QueryRowContext(ctx, query, site, equipmentType, startDate, endDate).Scan(&reserved); err != nil {
		return 0, err
	}
	return reserved, nil
}

func (r *inventoryRepository) LowStock(ctx context.Context, threshold int32) ([]domain.CapacityPool, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory
	          WHERE available_quantity <= $1
	          ORDER BY available_quantity ASC, site, equipment_type`
	return r.queryPools(ctx, query, threshold)
}

func (r *inventoryRepository) Utilization(ctx context.Context, site, startDate, endDate string) ([]domain.PoolUtilization, error) {
	query := `SELECT i.site, i.equipment_type, i.total_quantity, i.available_quantity, i.maintenance_quantity,
	                 COALESCE(SUM(re.quantity), 0) AS reserved_quantity,
	                 COALESCE(ROUND((COALESCE(SUM(re.quantity), 0)::decimal / NULLIF(i.total_quantity, 0)) * 100, 2), 0) AS utilization_rate
	          FROM inventory i
	          LEFT JOIN reservation_equipment re ON i.equipment_type = re.equipment_type
	          LEFT JOIN reservations r ON re.reservation_id = r.id AND r.pickup_site = i.site`
	conditions := []string{}
	args := []any{}
	if site != "" {
		args = append(args, site)
		conditions = append(conditions, fmt.Sprintf("i.site = $%d", len(args)))
	}
	if startDate != "" && endDate != "" {
		args = append(args, startDate, endDate)
		conditions = append(conditions, fmt.Sprintf("(r.start_date <= $%d AND r.end_date >= $%d)", len(args), len(args)-1))
		conditions = append(conditions, "r.status NOT IN ('cancelled', 'returned')")
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += ` GROUP BY i.site, i.equipment_type, i.total_quantity, i.available_quantity, i.maintenance_quantity
	           ORDER BY i.site, i.equipment_type`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PoolUtilization
	for rows.Next() {
		var u domain.PoolUtilization
		err := rows.Scan(&u.Site, &u.EquipmentType, &u.TotalQuantity, &u.AvailableQuantity,
			&u.MaintenanceQuantity, &u.ReservedQuantity, &u.UtilizationRate)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *inventoryRepository) AcquireSiteTypeLock(ctx context.Context, site string, equipmentType domain.EquipmentType) error {
	// Transaction-scoped advisory lock keyed on (site, type). Serializes
	// the availability check + reservation insert pair and unit code
	// generation for the same pool; released automatically at commit or
	// rollback.
	_, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || '/' || $2))`, site, string(equipmentType))
	return err
}

func (r *inventoryRepository) queryPools(ctx context.Context, query string, args ...any) ([]domain.CapacityPool, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []domain.CapacityPool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, *p)
	}
	return pools, rows.Err()
}
