package handler

import "github.com/shinyyama/leaderboard-backend/internal/model"

type ScoreResponse struct {
	CompanyID string  `json:"company_id"`
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	Avatar    *string `json:"avatar"`
	Points    int64   `json:"points"`
}

func toScoreResponse(s model.UserScore) ScoreResponse {
	return ScoreResponse{
		CompanyID: s.TenantID,
		UserID:    s.UserID,
		Username:  s.Username,
		Avatar:    s.Avatar,
		Points:    s.Points,
	}
}

type SettingsResponse struct {
	CompanyID     string `json:"company_id"`
	PointsPerMsg  int    `json:"points_per_msg"`
	PointsPerJoin int    `json:"points_per_join"`
}

func toSettingsResponse(s *model.TenantSettings) SettingsResponse {
	return SettingsResponse{
		CompanyID:     s.TenantID,
		PointsPerMsg:  s.PointsPerMsg,
		PointsPerJoin: s.PointsPerJoin,
	}
}
