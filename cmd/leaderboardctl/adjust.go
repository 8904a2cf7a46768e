package main

import (
	"context"
	"fmt"

	"github.com/shinyyama/leaderboard-backend/internal/model"
	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/spf13/cobra"
)

func adjustCmd(a *app) *cobra.Command {
	var (
		delta    int64
		username string
	)
	cmd := &cobra.Command{
		Use:   "adjust [user-id]",
		Short: "Add (or with a negative --delta, remove) points for a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				rec, err := ledger.ApplyDelta(context.Background(), model.ScoreUpdate{
					TenantID: tenantID,
					UserID:   args[0],
					Username: username,
				}, delta)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s now has %d points\n", rec.UserID, rec.Points)
				return nil
			})
		},
	}
	cmd.Flags().Int64VarP(&delta, "delta", "d", 0, "points to add; may be negative")
	cmd.Flags().StringVar(&username, "username", "Whop User", "display name stored with the member")
	return cmd
}

func demoteCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "demote [user-id]",
		Short: "Pin a member's total to the demotion value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				rec, err := ledger.SetAbsoluteTotal(context.Background(), model.ScoreUpdate{
					TenantID: tenantID,
					UserID:   args[0],
					Username: username,
				}, model.DemotedPoints)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s demoted to %d points\n", rec.UserID, rec.Points)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "Whop User", "display name stored with the member")
	return cmd
}
