package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "spendwise",
		Short:   "Track income and expenses from the terminal",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newLoginCommand(),
		newRegisterCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newDashboardCommand(),
		newMonthlyCommand(),
		newExpenseCommand(),
		newCategoryCommand(),
		newStatsCommand(),
	)

	return rootCmd
}
