package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConflictsCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Inspect and resolve settlement conflicts",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List unresolved settlement conflicts, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conflicts, err := app().settlement.ListConflicts(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd, conflicts)
		},
	}
	list.Flags().IntVar(&limit, "limit", 100, "maximum rows")

	var note string
	resolve := &cobra.Command{
		Use:   "resolve <conflict-id>",
		Short: "Mark a settlement conflict as reconciled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid conflict id: %w", err)
			}
			if err := app().settlement.ResolveConflict(cmd.Context(), id, note); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "resolved %s\n", id)
			return err
		},
	}
	resolve.Flags().StringVar(&note, "note", "", "what was done to reconcile")
	_ = resolve.MarkFlagRequired("note")

	cmd.AddCommand(list, resolve)
	return cmd
}

func newRolloverCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Free-plan cycle maintenance",
	}

	var batch int
	sweep := &cobra.Command{
		Use:   "sweep",
		Short: "Start a new cycle for every free subscription past its reset time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := app().ledger.SweepRollovers(cmd.Context(), batch)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rolled over %d subscriptions\n", n)
			return err
		},
	}
	sweep.Flags().IntVar(&batch, "batch", 100, "subscriptions per query")

	cmd.AddCommand(sweep)
	return cmd
}
