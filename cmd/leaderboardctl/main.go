package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/shinyyama/leaderboard-backend/internal/config"
	"github.com/shinyyama/leaderboard-backend/internal/db"
	"github.com/shinyyama/leaderboard-backend/internal/repository"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/spf13/cobra"
)

var Version = "dev"

// app holds what every subcommand needs. open is swapped out in tests.
type app struct {
	open    func() (service.LedgerService, func() error, error)
	out     io.Writer
	company string
}

func main() {
	_ = godotenv.Load()

	a := &app{open: openLedger, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "leaderboardctl",
		Short:         "Inspect and adjust tenant leaderboards",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&a.company, "company", "c", "", "company (tenant) id; defaults to DEMO_COMPANY_ID")

	rootCmd.AddCommand(topCmd(a))
	rootCmd.AddCommand(settingsCmd(a))
	rootCmd.AddCommand(adjustCmd(a))
	rootCmd.AddCommand(demoteCmd(a))
	rootCmd.AddCommand(seedCmd(a))
	return rootCmd
}

func openLedger() (service.LedgerService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	ledger := service.NewLedgerService(
		repository.NewSettingsRepository(conn),
		repository.NewScoreRepository(conn),
		service.Defaults{PointsPerMsg: cfg.DefaultPointsPerMsg, PointsPerJoin: cfg.DefaultPointsPerJoin},
		nil,
	)
	return ledger, func() error { return db.Close(conn) }, nil
}

// withLedger resolves the tenant and runs fn against an open ledger.
func (a *app) withLedger(fn func(ledger service.LedgerService, tenantID string) error) error {
	tenantID := a.company
	if tenantID == "" {
		tenantID = os.Getenv("DEMO_COMPANY_ID")
	}
	if tenantID == "" {
		return fmt.Errorf("--company is required")
	}
	ledger, closeFn, err := a.open()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ledger, tenantID)
}
