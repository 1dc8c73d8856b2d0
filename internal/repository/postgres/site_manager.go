package postgres

import (
	"context"
	"time"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

const siteManagerColumns = `id, site, user_alias, slack_user_id, email, is_active, created_at`

type siteManagerRepository struct {
	db DBTX
}

func NewSiteManagerRepository(db DBTX) repository.SiteManagerRepository {
	return &siteManagerRepository{db: db}
}

func scanSiteManager(row unitScanner) (*domain.SiteManager, error) {
	var (
		m         domain.SiteManager
		createdAt time.Time
	)
	err := row.Scan(&m.ID, &m.Site, &m.UserAlias, &m.SlackUserID, &m.Email, &m.IsActive, &createdAt)
	if err != nil {
		return nil, err
	}
	m.CreatedOn = createdAt.Format(time.RFC3339)
	return &m, nil
}

func (r *siteManagerRepository) Create(ctx context.Context, m *domain.SiteManager) error {
	query := `INSERT INTO site_managers (site, user_alias, slack_user_id, email, is_active)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, m.Site, m.UserAlias, m.SlackUserID, m.Email, m.IsActive).Scan(&m.ID)
}

func (r *siteManagerRepository) ListBySite(ctx context.Context, site string, activeOnly bool) ([]domain.SiteManager, error) {
	query := `SELECT ` + siteManagerColumns + ` FROM site_managers WHERE site = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY created_at ASC`
	return r.queryManagers(ctx, query, site)
}

func (r *siteManagerRepository) ListActive(ctx context.Context) ([]domain.SiteManager, error) {
	query := `SELECT ` + siteManagerColumns + ` FROM site_managers WHERE is_active = true ORDER BY site, created_at ASC`
	return r.queryManagers(ctx, query)
}

func (r *siteManagerRepository) ListByAlias(ctx context.Context, userAlias string) ([]domain.SiteManager, error) {
	query := `SELECT ` + siteManagerColumns + ` FROM site_managers WHERE user_alias = $1 AND is_active = true`
	return r.queryManagers(ctx, query, userAlias)
}

func (r *siteManagerRepository) SetActive(ctx context.Context, id int32, active bool) (*domain.SiteManager, error) {
	query := `UPDATE site_managers SET is_active = $2 WHERE id = $1 RETURNING ` + siteManagerColumns
	return scanSiteManager(r.db.QueryRowContext(ctx, query, id, active))
}

func (r *siteManagerRepository) Stats(ctx context.Context) ([]domain.SiteManagerStats, error) {
	query := `SELECT site,
	                 COUNT(*) AS total_managers,
	                 COUNT(CASE WHEN is_active = true THEN 1 END) AS active_managers,
	                 COUNT(CASE WHEN slack_user_id IS NOT NULL AND slack_user_id != '' THEN 1 END) AS managers_with_slack
	          FROM site_managers GROUP BY site ORDER BY site`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.SiteManagerStats
	for rows.Next() {
		var s domain.SiteManagerStats
		if err := rows.Scan(&s.Site, &s.TotalManagers, &s.ActiveManagers, &s.ManagersWithSlack); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *siteManagerRepository) queryManagers(ctx context.Context, query string, args ...any) ([]domain.SiteManager, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var managers []domain.SiteManager
	for rows.Next() {
		m, err := scanSiteManager(rows)
		if err != nil {
			return nil, err
		}
		managers = append(managers, *m)
	}
	return managers, rows.Err()
}
