package model

import "time"

// UserScore is the running point total of one user inside one tenant.
type UserScore struct {
	TenantID  string    `gorm:"column:tenant_id;primaryKey;size:191;index:idx_users_tenant_points,priority:1"`
	UserID    string    `gorm:"column:user_id;primaryKey;size:191"`
	Username  string    `gorm:"column:username;size:255"`
	Avatar    *string   `gorm:"column:avatar;size:1024"`
	Points    int64     `gorm:"column:points;not null;index:idx_users_tenant_points,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserScore) TableName() string {
	return "users"
}

// DemotedPoints marks a member whose membership went invalid.
const DemotedPoints int64 = -1
