package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"prospector/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var (
		network bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, stored keys, and optionally upstream reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				results := preflight.RunAll(cmd.Context(), rt.cfg, rt.store, preflight.Options{Network: network})
				if asJSON {
					if err := writeJSON(cmd, results); err != nil {
						return err
					}
				} else {
					rows := make([][]string, 0, len(results))
					for _, r := range results {
						status := "ok"
						if !r.Passed {
							status = "FAIL"
						}
						rows = append(rows, []string{r.Name, status, r.Detail})
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))
				}
				if preflight.Failed(results) {
					return errors.New("preflight checks failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&network, "network", false, "Also probe the lead and email source hosts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
