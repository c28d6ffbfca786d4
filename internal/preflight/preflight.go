package preflight

import (
	"context"

	"prospector/internal/config"
	"prospector/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Options selects the optional checks.
type Options struct {
	// Network probes both upstream hosts. No credential is sent.
	Network bool
}

// RunAll executes the preflight checks for the given config and store.
func RunAll(ctx context.Context, cfg *config.Config, st *store.Store, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if st != nil {
		results = append(results, CheckCredentials(ctx, st)...)
	}
	if opts.Network {
		results = append(results,
			CheckReachable(ctx, "Lead source", cfg.LeadSource.BaseURL, cfg.RequestTimeout()),
			CheckReachable(ctx, "Email source", cfg.EmailSource.BaseURL, cfg.RequestTimeout()),
		)
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
