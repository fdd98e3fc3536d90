package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/api"
	"github.com/spendwise-dev/spendwise/internal/logging"
)

func newLoginCommand() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				password, err = readPassword(os.Stdin)
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password must not be empty")
			}

			token, err := env.client.Login(cmd.Context(), email, password)
			if err != nil {
				if api.IsStatus(err, 401) || api.IsStatus(err, 400) {
					return fmt.Errorf("login failed: check your email and password")
				}
				return fmt.Errorf("login failed: %w", err)
			}
			if err := env.sess.Login(token.AccessToken); err != nil {
				return err
			}

			// Best-effort profile fetch; login already succeeded.
			user, err := env.client.CurrentUser(cmd.Context(), env.sess.Token())
			if err != nil {
				env.log.Warn("fetching profile failed", logging.FieldError, err)
				fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
				return nil
			}
			env.sess.SetUser(user)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")

	return cmd
}

func newRegisterCommand() *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				password, err = readPassword(os.Stdin)
				fmt.Fprintln(cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password must not be empty")
			}

			user, err := env.client.Register(cmd.Context(), api.RegisterRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				if detail := api.Detail(err); detail != "" {
					return fmt.Errorf("registration failed: %s", detail)
				}
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s. Run 'spendwise login' to sign in.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			if err := env.sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			token := env.sess.Token()
			if token == "" {
				return fmt.Errorf("not logged in: run 'spendwise login'")
			}
			user, err := env.client.CurrentUser(cmd.Context(), token)
			if err != nil {
				return env.authFail(cmd.OutOrStdout(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
}
