package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type cliEnv struct {
	configPath   string
	baseDir      string
	leadRequests atomic.Int32
	emailChecks  atomic.Int32
}

func setupCLITestEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	for _, key := range []string{"PROSPECTOR_DATA_DIR", "PROSPECTOR_LEAD_SOURCE_URL", "PROSPECTOR_EMAIL_SOURCE_URL"} {
		t.Setenv(key, "")
	}
	env := &cliEnv{baseDir: base}

	leads := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.leadRequests.Add(1)
		if r.Header.Get("x-rapidapi-key") != "lead-key-0001" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"next":"","total":2,"people":[
			{"id":"p1","firstName":"Jane","lastName":"Doe","name":"Jane Doe","title":"CTO","organizationName":"Example","organizationWebsiteUrl":"https://www.example.com/about"},
			{"id":"p2","firstName":"John","lastName":"Roe","name":"John Roe","title":"CTO","organizationName":"Nosite"}]}`)
	}))
	t.Cleanup(leads.Close)

	emails := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.emailChecks.Add(1)
		status := "invalid"
		if r.URL.Query().Get("email") == "doe@example.com" {
			status = "valid"
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":%q}`, status)
	}))
	t.Cleanup(emails.Close)

	env.configPath = filepath.Join(base, "config.toml")
	cfg := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[lead_source]
base_url = %q
host = "leads.test"

[email_source]
base_url = %q
host = "emails.test"

[http]
timeout_seconds = 5

[metrics]
textfile_path = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), leads.URL, emails.URL, filepath.Join(base, "metrics.prom"))
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func TestCLIFetchAndVerifyEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	mustRunCLI(t, env, "keys", "add", "lead-key-0001", "--scope", "leads")
	mustRunCLI(t, env, "keys", "add", "email-key-0002", "--scope", "email")
	out := mustRunCLI(t, env, "keys")
	if strings.Contains(out, "lead-key-0001") || !strings.Contains(out, "0001") {
		t.Fatalf("expected masked keys, got %q", out)
	}

	mustRunCLI(t, env, "lists", "add", "--name", "cto-berlin", "--title", "CTO",
		"--location", "Berlin", "--industry", "Software", "--employee-size", "1-10,11-20")

	out = mustRunCLI(t, env, "fetch", "leads", "--list", "cto-berlin", "--count", "5", "--json")
	var summary struct {
		Outcome string `json:"outcome"`
		Result  struct {
			Inserted int  `json:"inserted"`
			Done     bool `json:"done"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode fetch summary: %v (%q)", err, out)
	}
	if summary.Outcome != "ok" || summary.Result.Inserted != 2 || !summary.Result.Done {
		t.Fatalf("unexpected fetch summary %+v", summary)
	}

	out = mustRunCLI(t, env, "fetch", "leads", "--list", "cto-berlin", "--count", "5")
	if !strings.Contains(out, "no further pages") {
		t.Fatalf("expected no-more-data message, got %q", out)
	}
	if got := env.leadRequests.Load(); got != 1 {
		t.Fatalf("expected a single lead request, got %d", got)
	}

	out = mustRunCLI(t, env, "fetch", "emails", "--list", "cto-berlin", "--count", "10")
	if !strings.Contains(out, "Matched") {
		t.Fatalf("unexpected verification output %q", out)
	}
	if got := env.emailChecks.Load(); got != 1 {
		t.Fatalf("expected one email check for the first candidate, got %d", got)
	}
	metricsText, err := os.ReadFile(filepath.Join(env.baseDir, "metrics.prom"))
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	if !strings.Contains(string(metricsText), `prospector_verifications_total{outcome="matched"} 1`) {
		t.Fatalf("metrics textfile missing verification counter: %s", metricsText)
	}

	out = mustRunCLI(t, env, "fetch", "emails", "--list", "cto-berlin", "--count", "1")
	if !strings.Contains(out, "already been processed") {
		t.Fatalf("expected nothing-to-verify message, got %q", out)
	}

	out = mustRunCLI(t, env, "leads", "--list", "cto-berlin", "--json")
	var page struct {
		Items []struct {
			ExternalID string `json:"external_id"`
			Email      string `json:"email"`
		} `json:"items"`
		Total     int `json:"total"`
		Remaining int `json:"remaining"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode leads: %v (%q)", err, out)
	}
	if page.Total != 2 || page.Remaining != 0 || len(page.Items) != 2 {
		t.Fatalf("unexpected window %+v", page)
	}
	if page.Items[0].Email != "doe@example.com" || page.Items[1].Email != "" {
		t.Fatalf("unexpected emails %+v", page.Items)
	}

	out = mustRunCLI(t, env, "lists", "--json")
	var lists []struct {
		Name          string `json:"name"`
		EmployeeSize  string `json:"employee_size"`
		FetchedCount  int64  `json:"fetched_count"`
		VerifiedCount int64  `json:"verified_count"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal([]byte(out), &lists); err != nil {
		t.Fatalf("decode lists: %v (%q)", err, out)
	}
	if len(lists) != 1 || lists[0].FetchedCount != 2 || lists[0].VerifiedCount != 2 || lists[0].Status != "complete" {
		t.Fatalf("unexpected lists %+v", lists)
	}
	if lists[0].EmployeeSize != "1-10, 11-20" {
		t.Fatalf("unexpected employee size %q", lists[0].EmployeeSize)
	}

}

func TestCLIFetchWithoutKeysFails(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "lists", "add", "--name", "empty", "--title", "CTO",
		"--location", "Berlin", "--industry", "Software")

	_, _, err := runCLI(t, []string{"fetch", "leads", "--list", "empty", "--count", "1"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure without lead keys")
	}
	if got := env.leadRequests.Load(); got != 0 {
		t.Fatalf("expected no requests, got %d", got)
	}
}

func TestCLIRejectsUnknownScopeAndSize(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"keys", "add", "k", "--scope", "everything"}, env.configPath); err == nil {
		t.Fatal("expected unknown scope to be rejected")
	}
	if _, _, err := runCLI(t, []string{"lists", "add", "--name", "x", "--title", "CTO",
		"--location", "Berlin", "--industry", "Software", "--employee-size", "3-7"}, env.configPath); err == nil {
		t.Fatal("expected unknown employee size to be rejected")
	}
	out := mustRunCLI(t, env, "lists")
	if !strings.Contains(out, "No lists yet") {
		t.Fatalf("expected empty list output, got %q", out)
	}
}

func TestCLIUnknownListIsReported(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"leads", "--list", "missing"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCLIPreflight(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight to fail without keys")
	}
	if !strings.Contains(out, "FAIL") {
		t.Fatalf("expected failing row, got %q", out)
	}

	mustRunCLI(t, env, "keys", "add", "shared-key-0003", "--scope", "both")
	out = mustRunCLI(t, env, "preflight", "--network")
	if strings.Contains(out, "FAIL") {
		t.Fatalf("unexpected failure: %q", out)
	}
}

func TestCLINotifiesRunOutcome(t *testing.T) {
	env := setupCLITestEnv(t)

	var titles []string
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles = append(titles, r.Header.Get("Title"))
	}))
	t.Cleanup(ntfy.Close)

	f, err := os.OpenFile(env.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	fmt.Fprintf(f, "\n[notifications]\nntfy_topic = %q\n", ntfy.URL+"/leads")
	f.Close()

	out := mustRunCLI(t, env, "test-notify")
	if !strings.Contains(out, "Test notification sent") {
		t.Fatalf("unexpected test-notify output %q", out)
	}

	mustRunCLI(t, env, "lists", "add", "--name", "n", "--title", "CTO", "--location", "Berlin", "--industry", "Software")
	mustRunCLI(t, env, "keys", "add", "bad-key-9999", "--scope", "leads")
	if _, _, err := runCLI(t, []string{"fetch", "leads", "--list", "n", "--count", "1"}, env.configPath); err == nil {
		t.Fatal("expected exhausted keys to fail the run")
	}
	if len(titles) != 2 || titles[1] != "Prospector - Leads failed" {
		t.Fatalf("unexpected notifications %v", titles)
	}
}
