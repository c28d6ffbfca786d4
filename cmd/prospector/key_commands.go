package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"prospector/internal/credentials"
	"prospector/internal/services"
)

func newKeysCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show stored API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				keys, err := rt.store.ListCredentials(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					type keyView struct {
						ID        int64     `json:"id"`
						Key       string    `json:"key"`
						Scope     string    `json:"scope"`
						CreatedAt time.Time `json:"created_at"`
					}
					views := make([]keyView, 0, len(keys))
					for _, k := range keys {
						views = append(views, keyView{ID: k.ID, Key: k.Masked(), Scope: k.Scope.String(), CreatedAt: k.CreatedAt})
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(keys) == 0 {
					fmt.Fprintln(out, "No keys stored. Add one with 'prospector keys add KEY --scope leads|email|both'.")
					return nil
				}
				rows := make([][]string, 0, len(keys))
				for _, k := range keys {
					rows = append(rows, []string{
						strconv.FormatInt(k.ID, 10),
						k.Masked(),
						k.Scope.String(),
						k.CreatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Key", "Scope", "Added"}, rows, []columnAlignment{alignRight}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.AddCommand(newKeysAddCommand(ctx))
	return cmd
}

func newKeysAddCommand(ctx *commandContext) *cobra.Command {
	var scopeFlag string
	cmd := &cobra.Command{
		Use:   "add KEY",
		Short: "Store an API key for leads, email, or both",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := credentials.ParseScope(scopeFlag)
			if err != nil {
				return services.Wrap(services.ErrValidation, "keys", "add", "", err)
			}
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				stored, err := rt.store.AddCredential(cmd.Context(), args[0], scope)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored key %s for %s\n", stored.Masked(), stored.Scope)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scopeFlag, "scope", "", "Purpose of the key: leads, email, or both")
	_ = cmd.MarkFlagRequired("scope")
	return cmd
}
