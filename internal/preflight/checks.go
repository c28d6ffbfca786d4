package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"prospector/internal/credentials"
	"prospector/internal/store"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCredentials reports, per purpose, whether at least one stored key can
// serve it.
func CheckCredentials(ctx context.Context, st *store.Store) []Result {
	purposes := []struct {
		name  string
		scope credentials.Scope
	}{
		{"Lead credentials", credentials.ScopeLeads},
		{"Email credentials", credentials.ScopeEmail},
	}
	results := make([]Result, 0, len(purposes))
	for _, p := range purposes {
		creds, err := st.CredentialsFor(ctx, p.scope)
		switch {
		case err != nil:
			results = append(results, Result{Name: p.name, Detail: fmt.Sprintf("lookup failed (%v)", err)})
		case len(creds) == 0:
			results = append(results, Result{Name: p.name, Detail: fmt.Sprintf("no %s or both keys stored (add one with 'prospector keys add')", p.scope)})
		default:
			results = append(results, Result{Name: p.name, Passed: true, Detail: fmt.Sprintf("%d usable", len(creds))})
		}
	}
	return results
}

// CheckReachable verifies that the host answers HTTP at all. Any response
// status counts; only transport failures fail the check.
func CheckReachable(ctx context.Context, name, baseURL string, timeout time.Duration) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("probe failed (%v)", err)}
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%d)", resp.StatusCode)}
}
