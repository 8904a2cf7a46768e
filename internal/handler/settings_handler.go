package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/service"
)

type SettingsHandler struct {
	svc service.QueryService
}

func NewSettingsHandler(svc service.QueryService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(c echo.Context) error {
	st, err := h.svc.ReadSettings(c.Request().Context(), c.QueryParam("company_id"))
	if err != nil {
		return respondError(c, err, "unable to fetch settings")
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toSettingsResponse(st)})
}

type UpdateSettingsRequest struct {
	CompanyID     string `json:"company_id"`
	PointsPerMsg  *int   `json:"points_per_msg"`
	PointsPerJoin *int   `json:"points_per_join"`
}

// Update takes the tenant from the query string, falling back to the body.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	tenantID := c.QueryParam("company_id")
	if tenantID == "" {
		tenantID = req.CompanyID
	}
	patch := model.SettingsPatch{PointsPerMsg: req.PointsPerMsg, PointsPerJoin: req.PointsPerJoin}
	st, err := h.svc.WriteSettings(c.Request().Context(), tenantID, patch)
	if err != nil {
		return respondError(c, err, "unable to update settings")
	}
	return c.JSON(http.StatusOK, DataResponse{Data: toSettingsResponse(st)})
}
