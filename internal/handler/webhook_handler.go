package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/leaderboard-backend/internal/logger"
	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/shinyyama/leaderboard-backend/internal/webhook"
	"github.com/sirupsen/logrus"
)

type WebhookHandler struct {
	svc     service.ActivityService
	metrics *metrics.Metrics
}

func NewWebhookHandler(svc service.ActivityService, m *metrics.Metrics) *WebhookHandler {
	return &WebhookHandler{svc: svc, metrics: m}
}

func (h *WebhookHandler) Activity(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "unable to read body"))
	}

	ev, err := webhook.Normalize(body, c.QueryParam("company_id"))
	if err != nil {
		h.metrics.WebhookEvent(ev.Kind, "rejected")
		logger.FromContext(ctx).WithError(err).Warn("webhook rejected")
		return respondError(c, err, "webhook handling failed")
	}

	res, err := h.svc.Process(ctx, ev)
	if err != nil {
		h.metrics.WebhookEvent(ev.Kind, "failed")
		return respondError(c, err, "webhook handling failed")
	}
	if res.Ignored {
		h.metrics.WebhookEvent(ev.Kind, "ignored")
		return c.JSON(http.StatusOK, map[string]bool{"ignored": true})
	}

	h.metrics.WebhookEvent(ev.Kind, "applied")
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":     res.Action,
		"company_id": ev.TenantID,
		"user_id":    ev.UserID,
		"points":     res.Score.Points,
	}).Info("webhook applied")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"action":  res.Action,
	})
}
