package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"prospector/internal/credentials"
	"prospector/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCredentialsPerPurpose(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.MustAddCredential(t, st, "lead-only", credentials.ScopeLeads)

	results := CheckCredentials(context.Background(), st)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed || results[1].Passed {
		t.Fatalf("expected leads to pass and email to fail, got %#v", results)
	}

	testsupport.MustAddCredential(t, st, "shared", credentials.ScopeBoth)
	results = CheckCredentials(context.Background(), st)
	if !results[1].Passed {
		t.Fatalf("expected both-scoped key to satisfy email, got %#v", results[1])
	}
}

func TestRunAllAfterOpen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.MustAddCredential(t, st, "shared", credentials.ScopeBoth)

	results := RunAll(context.Background(), cfg, st, Options{})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %#v", results)
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %#v", results)
	}
}

func TestCheckReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if result := CheckReachable(context.Background(), "src", srv.URL, time.Second); !result.Passed {
		t.Fatalf("expected any status to count as reachable, got %s", result.Detail)
	}

	url := srv.URL
	srv.Close()
	if result := CheckReachable(context.Background(), "src", url, time.Second); result.Passed {
		t.Fatal("expected closed server to fail")
	}
	if result := CheckReachable(context.Background(), "src", "", time.Second); result.Passed {
		t.Fatal("expected missing url to fail")
	}
}
