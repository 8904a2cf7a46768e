package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/db"
	"github.com/shinyyama/leaderboard-backend/internal/logger"
	"github.com/shinyyama/leaderboard-backend/internal/metrics"
	"github.com/shinyyama/leaderboard-backend/internal/server"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error: ", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	conn, err := db.Open(cfg)
	if err != nil {
		logger.Fatal("db open error: ", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			logger.Error("db close error: ", err)
		}
	}()

	srv := server.New(cfg, conn, metrics.New())

	if cfg.SeedDemo && cfg.DemoCompanyID != "" {
		seeder := service.NewDemoSeeder(srv.Ledger(), rand.New(rand.NewSource(time.Now().UnixNano())))
		n, err := seeder.Seed(context.Background(), cfg.DemoCompanyID, false)
		if err != nil {
			logger.Error("demo seed error: ", err)
		} else if n > 0 {
			logger.WithFields(logrus.Fields{"company_id": cfg.DemoCompanyID, "users": n}).Info("seeded demo company")
		}
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "db_driver": cfg.DBDriver}).Info("starting server")
		errCh <- srv.Start(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped: ", err)
		}
	case sig := <-quit:
		logger.Info("shutting down on ", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error: ", err)
		}
	}
}
