package model

// SettingsPatch carries a partial settings update; nil fields keep their value.
type SettingsPatch struct {
	PointsPerMsg  *int
	PointsPerJoin *int
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p.PointsPerMsg == nil && p.PointsPerJoin == nil
}

// ScoreUpdate identifies a user inside a tenant together with the profile
// fields written by every ledger mutation.
type ScoreUpdate struct {
	TenantID string
	UserID   string
	Username string
	Avatar   *string
}
