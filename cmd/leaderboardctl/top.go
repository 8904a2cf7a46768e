package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shinyyama/leaderboard-backend/internal/service"
	"github.com/spf13/cobra"
)

type topRow struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
}

func topCmd(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest ranked members of a company",
		Long: `Show the highest ranked members of a company.

Examples:
  leaderboardctl top --company biz_123
  leaderboardctl top -c biz_123 --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(ledger service.LedgerService, tenantID string) error {
				ctx := context.Background()
				if _, err := ledger.EnsureTenant(ctx, tenantID); err != nil {
					return err
				}
				list, err := ledger.TopByTenant(ctx, tenantID, service.ClampLimit(limit))
				if err != nil {
					return fmt.Errorf("list top: %w", err)
				}
				if asJSON {
					rows := make([]topRow, 0, len(list))
					for i, s := range list {
						rows = append(rows, topRow{Rank: i + 1, UserID: s.UserID, Username: s.Username, Points: s.Points})
					}
					enc := json.NewEncoder(a.out)
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}
				if len(list) == 0 {
					fmt.Fprintf(a.out, "%s has no members yet\n", tenantID)
					return nil
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RANK\tUSER\tNAME\tPOINTS")
				for i, s := range list {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, s.UserID, s.Username, s.Points)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", service.DefaultLimit, "maximum members to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
