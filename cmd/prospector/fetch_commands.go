package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"prospector/internal/credentials"
	"prospector/internal/ingest"
	"prospector/internal/logging"
	"prospector/internal/notifications"
	"prospector/internal/services"
	"prospector/internal/services/emailcheck"
	"prospector/internal/services/leadsource"
	"prospector/internal/verify"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch leads into a list or verify their emails",
	}
	fetchCmd.AddCommand(newFetchLeadsCommand(ctx))
	fetchCmd.AddCommand(newFetchEmailsCommand(ctx))
	return fetchCmd
}

type fetchFlags struct {
	list   string
	count  int
	asJSON bool
}

func (f *fetchFlags) bind(cmd *cobra.Command, countHelp string) {
	cmd.Flags().StringVarP(&f.list, "list", "l", "", "List name")
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, countHelp)
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Output the run summary as JSON")
	_ = cmd.MarkFlagRequired("list")
	_ = cmd.MarkFlagRequired("count")
}

type runSummary struct {
	List    string `json:"list"`
	RunID   string `json:"run_id"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
	Result  any    `json:"result"`
}

func newFetchLeadsCommand(ctx *commandContext) *cobra.Command {
	var flags fetchFlags
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Fetch up to --count people from the lead source into a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				runCtx := services.WithRunID(cmd.Context(), rt.runID)
				collection, err := rt.store.CollectionByName(runCtx, flags.list)
				if err != nil {
					return err
				}
				creds, err := rt.store.CredentialsFor(runCtx, credentials.ScopeLeads)
				if err != nil {
					return err
				}
				client, err := leadsource.New(leadsource.Config{
					BaseURL:    rt.cfg.LeadSource.BaseURL,
					Host:       rt.cfg.LeadSource.Host,
					HTTPClient: services.NewHTTPClient(rt.cfg.RequestTimeout()),
					Limiter:    services.NewLimiter(rt.cfg.MinRequestInterval()),
				})
				if err != nil {
					return err
				}
				fetcher, err := ingest.New(ingest.Options{
					Store:   rt.store,
					Source:  client,
					Metrics: ctx.ensureMetrics(),
					Logger:  rt.logger,
					LockDir: rt.cfg.LockDir(),
				})
				if err != nil {
					return err
				}

				started := time.Now()
				res, runErr := fetcher.Run(runCtx, collection, credentials.NewPool(credentials.ScopeLeads, creds), flags.count)
				notifyRun(runCtx, rt, notifications.Outcome{
					Run:      notifications.RunLeads,
					List:     collection.Name,
					Summary:  fmt.Sprintf("%d stored, %d already in list, %d requests", res.Inserted, res.Skipped, res.Requests),
					Duration: time.Since(started),
					Err:      runErr,
				})
				if errors.Is(runErr, services.ErrNoMoreData) {
					rt.logger.Info("list already complete", logging.String("list", collection.Name))
				}
				rows := [][]string{
					{"Pages", strconv.Itoa(res.Pages)},
					{"People received", strconv.Itoa(res.Fetched)},
					{"Stored", strconv.Itoa(res.Inserted)},
					{"Already in list", strconv.Itoa(res.Skipped)},
					{"Requests", strconv.Itoa(res.Requests)},
					{"Key rotations", strconv.Itoa(res.Rotations)},
					{"Source exhausted", yesNo(res.Done)},
				}
				return reportRun(cmd, flags.asJSON, collection.Name, rt.runID, res, rows, runErr,
					fmt.Sprintf("List %q has no further pages.", collection.Name))
			})
		},
	}
	flags.bind(cmd, "Number of people to fetch")
	return cmd
}

func newFetchEmailsCommand(ctx *commandContext) *cobra.Command {
	var flags fetchFlags
	cmd := &cobra.Command{
		Use:   "emails",
		Short: "Guess and verify emails for up to --count unverified people in a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRuntime(cmd, func(rt *runtime) error {
				runCtx := services.WithRunID(cmd.Context(), rt.runID)
				collection, err := rt.store.CollectionByName(runCtx, flags.list)
				if err != nil {
					return err
				}
				creds, err := rt.store.CredentialsFor(runCtx, credentials.ScopeEmail)
				if err != nil {
					return err
				}
				client, err := emailcheck.New(emailcheck.Config{
					BaseURL:    rt.cfg.EmailSource.BaseURL,
					Host:       rt.cfg.EmailSource.Host,
					HTTPClient: services.NewHTTPClient(rt.cfg.RequestTimeout()),
					Limiter:    services.NewLimiter(rt.cfg.MinRequestInterval()),
				})
				if err != nil {
					return err
				}
				validator, err := verify.New(verify.Options{
					Store:   rt.store,
					Checker: client,
					Metrics: ctx.ensureMetrics(),
					Logger:  rt.logger,
					LockDir: rt.cfg.LockDir(),
				})
				if err != nil {
					return err
				}

				started := time.Now()
				res, runErr := validator.Run(runCtx, collection, credentials.NewPool(credentials.ScopeEmail, creds), flags.count)
				notifyRun(runCtx, rt, notifications.Outcome{
					Run:      notifications.RunEmails,
					List:     collection.Name,
					Summary:  fmt.Sprintf("%d processed, %d matched, %d requests", res.Processed, res.Matched, res.Requests),
					Duration: time.Since(started),
					Err:      runErr,
				})
				rows := [][]string{
					{"Processed", strconv.Itoa(res.Processed)},
					{"Matched", strconv.Itoa(res.Matched)},
					{"No match", strconv.Itoa(res.NoMatch)},
					{"No website", strconv.Itoa(res.NoWebsite)},
					{"Requests", strconv.Itoa(res.Requests)},
					{"Key rotations", strconv.Itoa(res.Rotations)},
				}
				return reportRun(cmd, flags.asJSON, collection.Name, rt.runID, res, rows, runErr,
					fmt.Sprintf("Every fetched person in %q has already been processed.", collection.Name))
			})
		},
	}
	flags.bind(cmd, "Number of people to process")
	return cmd
}

// reportRun prints the summary of a run, including partial progress of a
// failed one. A no-more-data outcome is reported and is not an error.
func reportRun(cmd *cobra.Command, asJSON bool, list, runID string, result any, rows [][]string, runErr error, noMoreData string) error {
	outcome := services.Label(runErr)
	if asJSON {
		summary := runSummary{List: list, RunID: runID, Outcome: outcome, Result: result}
		if runErr != nil {
			summary.Error = runErr.Error()
		}
		if err := writeJSON(cmd, summary); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		if errors.Is(runErr, services.ErrNoMoreData) {
			fmt.Fprintln(out, noMoreData)
			return nil
		}
		fmt.Fprintln(out, renderTable([]string{"List " + list, ""}, rows, []columnAlignment{alignLeft, alignRight}))
		fmt.Fprintf(out, "Outcome: %s\n", strings.ReplaceAll(outcome, "_", " "))
	}
	if errors.Is(runErr, services.ErrNoMoreData) {
		return nil
	}
	if errors.Is(runErr, services.ErrAuthExhausted) {
		return fmt.Errorf("%w (add keys with 'prospector keys add' and rerun to resume)", runErr)
	}
	return runErr
}

// notifyRun logs the outcome and delivers it even when the run was
// interrupted.
func notifyRun(ctx context.Context, rt *runtime, outcome notifications.Outcome) {
	rt.logger.Info("run finished",
		logging.String("run", string(outcome.Run)),
		logging.String("list", outcome.List),
		logging.String("outcome", services.Label(outcome.Err)),
		logging.Duration("elapsed", outcome.Duration),
	)
	if err := rt.notifier.NotifyRunFinished(context.WithoutCancel(ctx), outcome); err != nil {
		rt.logger.Warn("run notification failed", logging.Error(err))
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
