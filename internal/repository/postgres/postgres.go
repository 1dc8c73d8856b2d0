package postgres

import (
	"context"
	"database/sql"

	"loaner-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// standalone or inside a store transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repoSet struct {
	equipment     repository.EquipmentRepository
	inventory     repository.InventoryRepository
	reservations  repository.ReservationRepository
	usageHistory  repository.UsageHistoryRepository
	siteManagers  repository.SiteManagerRepository
	notifications repository.NotificationLogRepository
}

func newRepoSet(db DBTX) repoSet {
	return repoSet{
		equipment:     NewEquipmentRepository(db),
		inventory:     NewInventoryRepository(db),
		reservations:  NewReservationRepository(db),
		usageHistory:  NewUsageHistoryRepository(db),
		siteManagers:  NewSiteManagerRepository(db),
		notifications: NewNotificationLogRepository(db),
	}
}

func (r repoSet) Equipment() repository.EquipmentRepository            { return r.equipment }
func (r repoSet) Inventory() repository.InventoryRepository            { return r.inventory }
func (r repoSet) Reservations() repository.ReservationRepository       { return r.reservations }
func (r repoSet) UsageHistory() repository.UsageHistoryRepository      { return r.usageHistory }
func (r repoSet) SiteManagers() repository.SiteManagerRepository       { return r.siteManagers }
func (r repoSet) NotificationLogs() repository.NotificationLogRepository {
	return r.notifications
}

// Store binds every repository to one *sql.DB and provides scoped
// transactions over the same repositories.
type Store struct {
	db *sql.DB
	repoSet
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repoSet: newRepoSet(db)}
}

// InTx runs fn against repositories bound to a single transaction. Commit
// happens only when fn returns nil; any error or panic rolls back in full
// before propagating.
func (s *Store) InTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(newRepoSet(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
