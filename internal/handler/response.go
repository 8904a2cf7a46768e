package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/leaderboard-backend/internal/apperr"
	"github.com/shinyyama/leaderboard-backend/internal/logger"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

type DataResponse struct {
	Data interface{} `json:"data"`
}

// respondError maps coded errors onto HTTP statuses. Anything that is not a
// client error is logged and reported with the generic fallback message.
func respondError(c echo.Context, err error, fallback string) error {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument:
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", apperr.MessageOf(err)))
	case apperr.CodeNotFound:
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", apperr.MessageOf(err)))
	}
	logger.FromContext(c.Request().Context()).
		WithError(err).
		WithField("path", c.Path()).
		Error(fallback)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", fallback))
}
