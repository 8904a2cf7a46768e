package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/handler"
	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	appmw "github.com/shinyyama/leaderboard-backend/internal/middleware"
	"github.com/shinyyama/leaderboard-backend/internal/repository"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e      *echo.Echo
	ledger service.LedgerService
}

// Option customizes a Server before routes are registered.
type Option func(*options)

type options struct {
	exchanger handler.TokenExchanger
}

// WithTokenExchanger replaces the OAuth client built from config.
func WithTokenExchanger(x handler.TokenExchanger) Option {
	return func(o *options) { o.exchanger = x }
}

func New(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, opts ...Option) *Server {
	o := options{exchanger: handler.NewOAuthConfig(cfg)}
	for _, opt := range opts {
		opt(&o)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID())
	e.Use(appmw.RequestLog())
	e.Use(appmw.Metrics(m))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	defaults := service.Defaults{
		PointsPerMsg:  cfg.DefaultPointsPerMsg,
		PointsPerJoin: cfg.DefaultPointsPerJoin,
	}
	ledger := service.NewLedgerService(
		repository.NewSettingsRepository(db),
		repository.NewScoreRepository(db),
		defaults,
		m,
	)
	querySvc := service.NewQueryService(ledger)
	activitySvc := service.NewActivityService(ledger)

	leaderboardHandler := handler.NewLeaderboardHandler(querySvc)
	settingsHandler := handler.NewSettingsHandler(querySvc)
	webhookHandler := handler.NewWebhookHandler(activitySvc, m)
	authHandler := handler.NewAuthHandler(o.exchanger)

	e.GET("/health", handler.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/auth/callback", authHandler.Callback)

	api := e.Group("/api")
	api.GET("/leaderboard", leaderboardHandler.List)
	api.GET("/settings", settingsHandler.Get)
	api.POST("/settings", settingsHandler.Update)
	api.POST("/webhook/activity", webhookHandler.Activity)

	return &Server{e: e, ledger: ledger}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Ledger is the ledger wired into the routes.
func (s *Server) Ledger() service.LedgerService {
	return s.ledger
}
