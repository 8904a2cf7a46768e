package model

import "time"

// TenantSettings holds the per-tenant point values. One row per tenant.
type TenantSettings struct {
	TenantID      string      `gorm:"column:tenant_id;primaryKey;size:191"`
	PointsPerMsg  int         `gorm:"column:points_per_msg;not null"`
	PointsPerJoin int         `gorm:"column:points_per_join;not null"`
	Users         []UserScore `gorm:"foreignKey:TenantID;references:TenantID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime"`
}

func (TenantSettings) TableName() string {
	return "settings"
}
