package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/spf13/cobra"
)

func seedCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a company with sample members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				seeder := service.NewDemoSeeder(ledger, rand.New(rand.NewSource(time.Now().UnixNano())))
				n, err := seeder.Seed(context.Background(), tenantID, force)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintf(a.out, "%s already has members; use --force to add samples anyway\n", tenantID)
					return nil
				}
				fmt.Fprintf(a.out, "seeded %d members into %s\n", n, tenantID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "seed even when members exist")
	return cmd
}
