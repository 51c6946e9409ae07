package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAccountsCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountsCreateCmd(app))
	return cmd
}

func newAccountsCreateCmd(app func() *app) *cobra.Command {
	var email, name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account on the free plan, or show it if it exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, created, err := app().accounts.EnsureAccount(cmd.Context(), email, name)
			if err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			if !created {
				fmt.Fprintln(cmd.ErrOrStderr(), "account already exists")
			}
			return writeJSON(cmd, account)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSessionsCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Issue session tokens",
	}

	var email string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a session token for an existing account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, err := app().accounts.FindByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("find account: %w", err)
			}
			token, expiresAt, err := app().identity.IssueSession(cmd.Context(), uuid.MustParse(account.ID))
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}
			return writeJSON(cmd, map[string]string{
				"token":      token,
				"expires_at": expiresAt.UTC().Format(time.RFC3339),
				"api_key":    "sk_" + account.ID,
			})
		},
	}
	issue.Flags().StringVar(&email, "email", "", "account email")
	_ = issue.MarkFlagRequired("email")

	cmd.AddCommand(issue)
	return cmd
}
