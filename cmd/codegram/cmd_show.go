package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/codegram/dataset"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <store> <id>",
		Short: "Print a mined method record from a SQLite store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dataset.IsStorePath(args[0]) {
				return fmt.Errorf("%s is not a SQLite store", args[0])
			}
			store, err := dataset.OpenStore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Record(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}
