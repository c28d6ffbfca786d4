package credentials

import (
	"errors"
	"testing"
)

func testCredentials() []Credential {
	return []Credential{
		{Key: "lead-1", Scope: ScopeLeads},
		{Key: "email-1", Scope: ScopeEmail},
		{Key: "both-1", Scope: ScopeBoth},
		{Key: "lead-2", Scope: ScopeLeads},
	}
}

func TestPoolFiltersByPurposeAndKeepsOrder(t *testing.T) {
	pool := NewPool(ScopeLeads, testCredentials())
	if pool.Len() != 3 {
		t.Fatalf("expected 3 lead credentials, got %d", pool.Len())
	}
	want := []string{"lead-1", "both-1", "lead-2"}
	for i, key := range want {
		cred, err := pool.Get()
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if cred.Key != key {
			t.Fatalf("position %d: got %q want %q", i, cred.Key, key)
		}
		if i < len(want)-1 {
			if _, err := pool.Rotate(); err != nil {
				t.Fatalf("rotate %d: %v", i, err)
			}
		}
	}
}

func TestPoolRotatesExactlyNMinusOneTimes(t *testing.T) {
	for n := 1; n <= 5; n++ {
		creds := make([]Credential, n)
		for i := range creds {
			creds[i] = Credential{Key: string(rune('a' + i)), Scope: ScopeEmail}
		}
		pool := NewPool(ScopeEmail, creds)
		for k := 0; k < n-1; k++ {
			next, err := pool.Rotate()
			if err != nil {
				t.Fatalf("n=%d rotation %d failed: %v", n, k+1, err)
			}
			got, _ := pool.Get()
			if got != next || got.Key != creds[k+1].Key {
				t.Fatalf("n=%d after %d rotations got %q want %q", n, k+1, got.Key, creds[k+1].Key)
			}
		}
		if _, err := pool.Rotate(); !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("n=%d expected ErrPoolExhausted, got %v", n, err)
		}
		// Exhaustion is permanent and leaves the last credential active.
		if _, err := pool.Rotate(); !errors.Is(err, ErrPoolExhausted) {
			t.Fatalf("n=%d expected repeated ErrPoolExhausted, got %v", n, err)
		}
		if got, _ := pool.Get(); got.Key != creds[n-1].Key {
			t.Fatalf("n=%d expected last credential active, got %q", n, got.Key)
		}
	}
}

func TestEmptyPool(t *testing.T) {
	pool := NewPool(ScopeEmail, []Credential{{Key: "lead", Scope: ScopeLeads}})
	if _, err := pool.Get(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if _, err := pool.Rotate(); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials from rotate, got %v", err)
	}
}

func TestCredentialMasked(t *testing.T) {
	if got := (Credential{Key: "abcdef123456"}).Masked(); got != "********3456" {
		t.Fatalf("unexpected mask %q", got)
	}
	if got := (Credential{Key: "abc"}).Masked(); got != "***" {
		t.Fatalf("unexpected short mask %q", got)
	}
}
