package model

import "gorm.io/gorm"

// AutoMigrate creates or updates the settings and users tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&TenantSettings{}, &UserScore{})
}
