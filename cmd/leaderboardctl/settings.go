package main

import (
	"context"
	"fmt"

	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/spf13/cobra"
)

func settingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read or change a company's point values",
	}
	cmd.AddCommand(settingsGetCmd(a))
	cmd.AddCommand(settingsSetCmd(a))
	return cmd
}

func printSettings(a *app, st *model.TenantSettings) {
	fmt.Fprintf(a.out, "company:         %s\n", st.TenantID)
	fmt.Fprintf(a.out, "points_per_msg:  %d\n", st.PointsPerMsg)
	fmt.Fprintf(a.out, "points_per_join: %d\n", st.PointsPerJoin)
}

func settingsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the settings, creating defaults if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				st, err := ledger.EnsureTenant(context.Background(), tenantID)
				if err != nil {
					return err
				}
				printSettings(a, st)
				return nil
			})
		},
	}
}

func settingsSetCmd(a *app) *cobra.Command {
	var msg, join int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change points per message and/or per join",
		Long: `Change points per message and/or per join. Omitted values are kept.

Examples:
  leaderboardctl settings set -c biz_123 --msg 15
  leaderboardctl settings set -c biz_123 --msg 5 --join 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.SettingsPatch
			if cmd.Flags().Changed("msg") {
				patch.PointsPerMsg = &msg
			}
			if cmd.Flags().Changed("join") {
				patch.PointsPerJoin = &join
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change: pass --msg and/or --join")
			}
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				st, err := ledger.UpdateSettings(context.Background(), tenantID, patch)
				if err != nil {
					return err
				}
				printSettings(a, st)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&msg, "msg", 0, "points per message/payment")
	cmd.Flags().IntVar(&join, "join", 0, "points per join")
	return cmd
}
