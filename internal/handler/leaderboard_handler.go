package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/leaderboard-backend/internal/service"
)

type LeaderboardHandler struct {
	svc service.QueryService
}

func NewLeaderboardHandler(svc service.QueryService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// List serves GET /api/leaderboard?company_id=&limit=. A missing or
// unparsable limit falls back to the default.
func (h *LeaderboardHandler) List(c echo.Context) error {
	limit := 0
	if lStr := c.QueryParam("limit"); lStr != "" {
		if lParsed, err := strconv.Atoi(lStr); err == nil {
			limit = lParsed
		}
	}
	list, err := h.svc.ListTop(c.Request().Context(), c.QueryParam("company_id"), limit)
	if err != nil {
		return respondError(c, err, "unable to fetch leaderboard")
	}
	resp := make([]ScoreResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, toScoreResponse(s))
	}
	return c.JSON(http.StatusOK, DataResponse{Data: resp})
}
