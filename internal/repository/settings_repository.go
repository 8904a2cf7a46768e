package repository

import (
	"context"

	"github.com/shinyyama/leaderboard-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	// Ensure inserts defaults when the tenant has no row yet and returns the
	// stored settings.
	Ensure(ctx context.Context, defaults model.TenantSettings) (*model.TenantSettings, error)
	Get(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	Update(ctx context.Context, defaults model.TenantSettings, patch model.SettingsPatch) (*model.TenantSettings, error)
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func ensureSettings(tx *gorm.DB, defaults model.TenantSettings) (*model.TenantSettings, error) {
	row := defaults
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	var out model.TenantSettings
	if err := tx.Where("tenant_id = ?", defaults.TenantID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *settingsRepository) Ensure(ctx context.Context, defaults model.TenantSettings) (*model.TenantSettings, error) {
	return ensureSettings(r.db.WithContext(ctx), defaults)
}

func (r *settingsRepository) Get(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	var s model.TenantSettings
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Take(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Update(ctx context.Context, defaults model.TenantSettings, patch model.SettingsPatch) (*model.TenantSettings, error) {
	var out *model.TenantSettings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := ensureSettings(tx, defaults)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if patch.PointsPerMsg != nil {
			updates["points_per_msg"] = *patch.PointsPerMsg
		}
		if patch.PointsPerJoin != nil {
			updates["points_per_join"] = *patch.PointsPerJoin
		}
		if len(updates) == 0 {
			out = cur
			return nil
		}
		if err := tx.Model(&model.TenantSettings{}).
			Where("tenant_id = ?", defaults.TenantID).
			Updates(updates).Error; err != nil {
			return err
		}
		var next model.TenantSettings
		if err := tx.Where("tenant_id = ?", defaults.TenantID).Take(&next).Error; err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
