package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/api"
)

func newStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Backend-computed analytics",
	}
	statsCmd.AddCommand(newStatsCategoryCommand(), newStatsMonthlyCommand())
	return statsCmd
}

func newStatsCategoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "category",
		Short: "Show totals per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}
			breakdown, err := env.client.CategoryBreakdown(cmd.Context(), token)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tTYPE\tTOTAL")
			for _, row := range breakdown {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", row.CategoryName, row.Type, row.Total.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func newStatsMonthlyCommand() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Show backend monthly totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}
			points, err := env.client.MonthlySummary(cmd.Context(), token, months)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tNET")
			for _, p := range points {
				fmt.Fprintf(tw, "%04d-%02d\t%s\t%s\t%s\n",
					p.Year, p.Month, p.TotalIncome.StringFixed(2),
					p.TotalExpenses.StringFixed(2), p.NetBalance.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&months, "months", api.DefaultMonths, "number of months to include")

	return cmd
}
