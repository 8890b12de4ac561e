package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSavedQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "saved-query <id>",
		Short: "Print the query string stored under a saved query id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			query, err := a.reports.SavedQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
}
