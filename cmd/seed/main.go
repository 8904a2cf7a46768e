package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/db"
	"github.com/shinyyama/leaderboard-backend/internal/repository"
	"github.com/shinyyama/leaderboard-backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(conn); cerr != nil && err == nil {
			err = fmt.Errorf("close db: %w", cerr)
		}
	}()

	tenantID := cfg.DemoCompanyID
	if len(os.Args) > 1 {
		tenantID = os.Args[1]
	}
	force := strings.EqualFold(os.Getenv("FORCE_SEED"), "true")

	ledger := service.NewLedgerService(
		repository.NewSettingsRepository(conn),
		repository.NewScoreRepository(conn),
		service.Defaults{PointsPerMsg: cfg.DefaultPointsPerMsg, PointsPerJoin: cfg.DefaultPointsPerJoin},
		nil,
	)
	seeder := service.NewDemoSeeder(ledger, rand.New(rand.NewSource(time.Now().UnixNano())))
	n, err := seeder.Seed(ctx, tenantID, force)
	if err != nil {
		return fmt.Errorf("seed %s: %w", tenantID, err)
	}
	if n == 0 {
		log.Printf("%s already has members; skipping seed (set FORCE_SEED=true to override)", tenantID)
		return nil
	}
	log.Printf("seeded %d users into %s", n, tenantID)
	return nil
}
