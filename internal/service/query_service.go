package service

import (
	"context"

	"github.com/shinyyama/leaderboard-backend/internal/apperr"
	"github.com/shinyyama/leaderboard-backend/internal/model"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ClampLimit maps an unset limit to DefaultLimit and bounds the rest to
// [1, MaxLimit].
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// QueryService backs the leaderboard and the settings panel.
type QueryService interface {
	ListTop(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error)
	ReadSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	WriteSettings(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error)
}

type queryService struct {
	ledger LedgerService
}

func NewQueryService(ledger LedgerService) QueryService {
	return &queryService{ledger: ledger}
}

func (s *queryService) ListTop(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	if _, err := s.ledger.EnsureTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.ledger.TopByTenant(ctx, tenantID, ClampLimit(limit))
}

func (s *queryService) ReadSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	return s.ledger.EnsureTenant(ctx, tenantID)
}

func (s *queryService) WriteSettings(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	return s.ledger.UpdateSettings(ctx, tenantID, patch)
}
