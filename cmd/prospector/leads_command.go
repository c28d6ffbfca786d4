package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prospector/internal/store"
)

func newLeadsCommand(ctx *commandContext) *cobra.Command {
	var (
		list       string
		window     store.Window
		unverified bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Page through the people stored in a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				c, err := rt.store.CollectionByName(cmd.Context(), list)
				if err != nil {
					return err
				}
				w := window
				if unverified {
					w.Offset += int(c.VerifiedCount)
				}
				page, err := rt.store.ReadWindow(cmd.Context(), c.ID, w)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, page)
				}

				out := cmd.OutOrStdout()
				if len(page.Items) == 0 {
					fmt.Fprintf(out, "No people at offset %d (list holds %d).\n", w.Offset, page.Total)
					return nil
				}
				rows := make([][]string, 0, len(page.Items))
				for i, r := range page.Items {
					rows = append(rows, []string{
						strconv.Itoa(w.Offset + i + 1),
						r.FullName,
						r.Title,
						r.OrganizationName,
						r.OrganizationWebsite,
						r.Email,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Name", "Title", "Company", "Website", "Email"},
					rows,
					[]columnAlignment{alignRight},
				))
				fmt.Fprintf(out, "Showing %d of %d, %d remaining", len(page.Items), page.Total, page.Remaining)
				if page.Next != nil {
					fmt.Fprintf(out, " (next: --offset %d)", page.Next.Offset)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&list, "list", "l", "", "List name")
	cmd.Flags().IntVar(&window.Limit, "limit", 20, "Number of people to show")
	cmd.Flags().IntVar(&window.Offset, "offset", 0, "Position of the first person")
	cmd.Flags().BoolVar(&unverified, "unverified", false, "Count the offset from the first unprocessed person")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}
