package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prospector/internal/filter"
	"prospector/internal/store"
)

func newListsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show lists with their filters and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				lists, err := rt.store.ListCollections(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					views := make([]listView, 0, len(lists))
					for _, c := range lists {
						views = append(views, newListView(c))
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(lists) == 0 {
					fmt.Fprintln(out, "No lists yet. Create one with 'prospector lists add'.")
					return nil
				}
				rows := make([][]string, 0, len(lists))
				for _, c := range lists {
					rows = append(rows, []string{
						strconv.FormatInt(c.ID, 10),
						c.Name,
						c.Filter.PersonTitle,
						c.Filter.Location,
						c.Filter.Industry,
						c.Filter.StorageSizes(),
						strconv.FormatInt(c.FetchedCount, 10),
						strconv.FormatInt(c.VerifiedCount, 10),
						listStatus(c.Cursor),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Title", "Location", "Industry", "Employees", "Fetched", "Verified", "Status"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.AddCommand(newListsAddCommand(ctx))
	return cmd
}

type listView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Filter        filter.Spec `json:"filter"`
	EmployeeSize  string      `json:"employee_size"`
	FetchedCount  int64       `json:"fetched_count"`
	VerifiedCount int64       `json:"verified_count"`
	NextCursor    string      `json:"next_cursor,omitempty"`
	Status        string      `json:"status"`
}

func newListView(c *store.Collection) listView {
	return listView{
		ID:            c.ID,
		Name:          c.Name,
		Filter:        c.Filter,
		EmployeeSize:  c.Filter.StorageSizes(),
		FetchedCount:  c.FetchedCount,
		VerifiedCount: c.VerifiedCount,
		NextCursor:    c.NextCursor,
		Status:        listStatus(c.Cursor),
	}
}

func listStatus(cur store.Cursor) string {
	switch {
	case cur.FetchedCount == 0 && cur.NextCursor == "":
		return "not started"
	case cur.Exhausted():
		return "complete"
	default:
		return "more available"
	}
}

func newListsAddCommand(ctx *commandContext) *cobra.Command {
	var (
		name   string
		spec   filter.Spec
		sizes  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a list with its search filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := filter.ParseSizes(sizes)
			if err != nil {
				return err
			}
			spec.Sizes = parsed
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				c, err := rt.store.CreateCollection(cmd.Context(), name, spec)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, newListView(c))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created list %q (id %d)\n", c.Name, c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Unique list name")
	cmd.Flags().StringVar(&spec.PersonTitle, "title", "", "Person title to search for")
	cmd.Flags().StringVar(&spec.Location, "location", "", "Location to search in")
	cmd.Flags().StringVar(&spec.Industry, "industry", "", "Company industry")
	cmd.Flags().StringVar(&spec.Keywords, "keywords", "", "Optional keywords")
	cmd.Flags().StringVar(&sizes, "employee-size", filter.Unspecified,
		"Comma-separated ranges ("+sizeChoices()+") or unspecified")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	for _, required := range []string{"name", "title", "location", "industry"} {
		_ = cmd.MarkFlagRequired(required)
	}
	return cmd
}

func sizeChoices() string {
	tokens := make([]string, 0, 11)
	for size := filter.Size1To10; size <= filter.Size10001Plus; size++ {
		tokens = append(tokens, size.String())
	}
	return strings.Join(tokens, ", ")
}
