package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/leaderboard-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository interface {
	// ApplyDelta adds delta to the user's total, creating the record when
	// absent, and overwrites the profile fields.
	ApplyDelta(ctx context.Context, u model.ScoreUpdate, delta int64) (*model.UserScore, error)
	// SetTotal moves the user's total to target. A total already at target
	// is left untouched, profile included.
	SetTotal(ctx context.Context, u model.ScoreUpdate, target int64) (*model.UserScore, error)
	Get(ctx context.Context, tenantID, userID string) (*model.UserScore, error)
	Top(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

// upsert is a single INSERT ... ON CONFLICT statement: a new row starts at
// insertPoints, an existing one gets conflictPoints and the new profile.
func upsert(tx *gorm.DB, u model.ScoreUpdate, insertPoints int64, conflictPoints interface{}) (*model.UserScore, error) {
	row := model.UserScore{
		TenantID: u.TenantID,
		UserID:   u.UserID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Points:   insertPoints,
	}
	set := clause.AssignmentColumns([]string{"username", "avatar", "updated_at"})
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "points"},
		Value:  conflictPoints,
	})
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}},
		DoUpdates: set,
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	var out model.UserScore
	if err := tx.Where("tenant_id = ? AND user_id = ?", u.TenantID, u.UserID).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// upsertScore adds delta in the database so concurrent deltas for one key
// never overwrite each other.
func upsertScore(tx *gorm.DB, u model.ScoreUpdate, delta int64) (*model.UserScore, error) {
	return upsert(tx, u, delta, gorm.Expr("users.points + ?", delta))
}

// upsertTotal writes target on both branches, so a row inserted by a
// concurrent writer after our read still ends at target.
func upsertTotal(tx *gorm.DB, u model.ScoreUpdate, target int64) (*model.UserScore, error) {
	return upsert(tx, u, target, target)
}

func (r *scoreRepository) ApplyDelta(ctx context.Context, u model.ScoreUpdate, delta int64) (*model.UserScore, error) {
	var out *model.UserScore
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := upsertScore(tx, u, delta)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepository) SetTotal(ctx context.Context, u model.ScoreUpdate, target int64) (*model.UserScore, error) {
	var out *model.UserScore
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() != "sqlite" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var cur model.UserScore
		err := q.Where("tenant_id = ? AND user_id = ?", u.TenantID, u.UserID).Take(&cur).Error
		switch {
		case err == nil && cur.Points == target:
			out = &cur
			return nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		s, err := upsertTotal(tx, u, target)
		if err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *scoreRepository) Get(ctx context.Context, tenantID, userID string) (*model.UserScore, error) {
	var s model.UserScore
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Take(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Top orders by points, then earliest-created, then user id.
func (r *scoreRepository) Top(ctx context.Context, tenantID string, limit int) ([]model.UserScore, error) {
	var list []model.UserScore
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("points DESC").
		Order("created_at ASC").
		Order("user_id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *scoreRepository) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserScore{}).
		Where("tenant_id = ?", tenantID).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
