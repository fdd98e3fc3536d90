package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/views"
)

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	categoryCmd.AddCommand(
		newCategoryListCommand(),
		newCategoryAddCommand(),
		newCategoryRemoveCommand(),
	)
	return categoryCmd
}

func newCategoryView(cmd *cobra.Command, env *appEnv) *views.Categories {
	view := views.NewCategories(env.client, env.sess, cmd.OutOrStdout(), env.log)
	view.RedirectDelay = env.redirectDelay()
	return view
}

func newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories, split by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := newCategoryView(cmd, env)
			if err := view.Load(cmd.Context()); err != nil {
				return loginHint(err)
			}
			view.Render()
			return nil
		},
	}
}

func newCategoryAddCommand() *cobra.Command {
	var categoryType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := newCategoryView(cmd, env)
			if err := view.Create(cmd.Context(), args[0], model.CategoryType(categoryType)); err != nil {
				return loginHint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %q added.\n", args[0])
			view.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "expense", "category type: income or expense")

	return cmd
}

func newCategoryRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			if !yes {
				ok, err := promptConfirm(os.Stdin, cmd.OutOrStdout(),
					"Are you sure you want to delete this category?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			env, err := newAppEnv()
			if err != nil {
				return err
			}
			view := newCategoryView(cmd, env)
			if err := view.Delete(cmd.Context(), id); err != nil {
				return loginHint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Category deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}
