package commands

import (
	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/views"
)

func newDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals and the transaction list",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := views.NewDashboard(env.client, env.sess, cmd.OutOrStdout(), env.log)
			view.RedirectDelay = env.redirectDelay()
			if err := view.Load(cmd.Context()); err != nil {
				return loginHint(err)
			}
			view.Render()
			return nil
		},
	}
}

func newMonthlyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly",
		Short: "Show per-month summaries, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := views.NewMonthly(env.client, env.sess, cmd.OutOrStdout(), env.log)
			if err := view.Load(cmd.Context()); err != nil {
				return loginHint(err)
			}
			view.Render()
			return nil
		},
	}
}
