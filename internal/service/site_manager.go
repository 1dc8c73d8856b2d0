package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loaner-backend/internal/domain"
	"loaner-backend/internal/repository"
)

type siteManagerService struct {
	store repository.Store
}

func NewSiteManagerService(store repository.Store) SiteManagerService {
	return &siteManagerService{store: store}
}

func (s *siteManagerService) Add(ctx context.Context, m *domain.SiteManager) (*domain.SiteManager, error) {
	if m.Site == "" || m.UserAlias == "" || m.Email == "" {
		return nil, fmt.Errorf("site, alias and email are required: %w", domain.ErrInvalidInput)
	}
	m.IsActive = true
	if err := s.store.SiteManagers().Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *siteManagerService) ListBySite(ctx context.Context, site string, activeOnly bool) ([]domain.SiteManager, error) {
	return s.store.SiteManagers().ListBySite(ctx, site, activeOnly)
}

func (s *siteManagerService) ListActive(ctx context.Context) ([]domain.SiteManager, error) {
	return s.store.SiteManagers().ListActive(ctx)
}

func (s *siteManagerService) ListByAlias(ctx context.Context, userAlias string) ([]domain.SiteManager, error) {
	return s.store.SiteManagers().ListByAlias(ctx, userAlias)
}

func (s *siteManagerService) SetActive(ctx context.Context, id int32, active bool) (*domain.SiteManager, error) {
	m, err := s.store.SiteManagers().SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("site manager %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (s *siteManagerService) Stats(ctx context.Context) ([]domain.SiteManagerStats, error) {
	return s.store.SiteManagers().Stats(ctx)
}
