package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newRootCmd(wire func() (*app, error)) *cobra.Command {
	var a *app
	rootCmd := &cobra.Command{
		Use:           "reelctl",
		Short:         "Operator tooling for the reelcraft accounting engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = wire()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a != nil {
				a.close()
			}
		},
	}

	current := func() *app { return a }
	rootCmd.AddCommand(
		newAccountsCmd(current),
		newSessionsCmd(current),
		newConflictsCmd(current),
		newRolloverCmd(current),
	)
	return rootCmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
