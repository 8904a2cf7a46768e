package service

import (
	"context"
	"errors"

	"github.com/shinyyama/leaderboard-backend/internal/apperr"
	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/repository"
	"gorm.io/gorm"
)

// Defaults are the point values given to a tenant on first reference.
type Defaults struct {
	PointsPerMsg  int
	PointsPerJoin int
}

var DefaultPoints = Defaults{PointsPerMsg: 10, PointsPerJoin: 50}

// LedgerService is the tenant-scoped points accumulator. Every mutation
// provisions the tenant's settings first.
type LedgerService interface {
	EnsureTenant(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	UpdateSettings(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error)
	ApplyDelta(ctx context.Context, u model.ScoreUpdate, delta int64) (*model.UserScore, error)
	SetAbsoluteTotal(ctx context.Context, u model.ScoreUpdate, target int64) (*model.UserScore, error)
	TopByTenant(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error)
	CountUsers(ctx context.Context, tenantID string) (int64, error)
}

type ledgerService struct {
	settings repository.SettingsRepository
	scores   repository.ScoreRepository
	defaults Defaults
	metrics  *metrics.Metrics
}

func NewLedgerService(settings repository.SettingsRepository, scores repository.ScoreRepository, defaults Defaults, m *metrics.Metrics) LedgerService {
	return &ledgerService{settings: settings, scores: scores, defaults: defaults, metrics: m}
}

func (s *ledgerService) defaultsFor(tenantID string) model.TenantSettings {
	return model.TenantSettings{
		TenantID:      tenantID,
		PointsPerMsg:  s.defaults.PointsPerMsg,
		PointsPerJoin: s.defaults.PointsPerJoin,
	}
}

func validateScoreUpdate(u model.ScoreUpdate) error {
	if u.TenantID == "" {
		return apperr.ErrMissingTenant
	}
	if u.UserID == "" {
		return apperr.ErrMissingUser
	}
	return nil
}

func (s *ledgerService) EnsureTenant(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	st, err := s.settings.Ensure(ctx, s.defaultsFor(tenantID))
	if err != nil {
		return nil, apperr.Storage("ensure tenant", err)
	}
	return st, nil
}

func (s *ledgerService) GetSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	st, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.Storage("get settings", err)
	}
	return st, nil
}

func (s *ledgerService) UpdateSettings(ctx context.Context, tenantID string, patch model.SettingsPatch) (*model.TenantSettings, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	st, err := s.settings.Update(ctx, s.defaultsFor(tenantID), patch)
	if err != nil {
		return nil, apperr.Storage("update settings", err)
	}
	return st, nil
}

func (s *ledgerService) ApplyDelta(ctx context.Context, u model.ScoreUpdate, delta int64) (*model.UserScore, error) {
	if err := validateScoreUpdate(u); err != nil {
		return nil, err
	}
	if _, err := s.EnsureTenant(ctx, u.TenantID); err != nil {
		return nil, err
	}
	rec, err := s.scores.ApplyDelta(ctx, u, delta)
	if err != nil {
		return nil, apperr.Storage("apply delta", err)
	}
	s.metrics.LedgerWrite("delta")
	return rec, nil
}

// SetAbsoluteTotal moves the total to target by applying the difference.
// Repeating it with the same target changes nothing.
func (s *ledgerService) SetAbsoluteTotal(ctx context.Context, u model.ScoreUpdate, target int64) (*model.UserScore, error) {
	if err := validateScoreUpdate(u); err != nil {
		return nil, err
	}
	if _, err := s.EnsureTenant(ctx, u.TenantID); err != nil {
		return nil, err
	}
	rec, err := s.scores.SetTotal(ctx, u, target)
	if err != nil {
		return nil, apperr.Storage("set total", err)
	}
	s.metrics.LedgerWrite("set")
	return rec, nil
}

func (s *ledgerService) TopByTenant(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error) {
	if tenantID == "" {
		return nil, apperr.ErrMissingTenant
	}
	if limit <= 0 {
		return nil, apperr.InvalidArgument("limit must be positive")
	}
	list, err := s.scores.Top(ctx, tenantID, limit)
	if err != nil {
		return nil, apperr.Storage("list top", err)
	}
	return list, nil
}

func (s *ledgerService) CountUsers(ctx context.Context, tenantID string) (int64, error) {
	if tenantID == "" {
		return 0, apperr.ErrMissingTenant
	}
	cnt, err := s.scores.CountByTenant(ctx, tenantID)
	if err != nil {
		return 0, apperr.Storage("count users", err)
	}
	return cnt, nil
}
